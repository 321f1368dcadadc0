package cmd

import (
	"fmt"

	"github.com/pb33f/wptlog/wptgen"
	"github.com/spf13/cobra"
)

var (
	genDir          string
	genTestCount    int
	genLeadingRows  int
	genTrailingRows int
	genPendingEvery int
	genRuns         int
	genFrames       int
	genNoRepeat     bool
	genSeed         int64
	genDictPath     string
	genShowTests    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a WebPageTest style test log and XML results",
	Long: `Generate a test log page and one XML result per listed test, laid out
the way a WebPageTest instance serves them. The output directory holds
testlog.html and xmlResult/<id>.xml and can be served with 'wptlog serve'.

Examples:
  wptlog generate -d fixtures
  wptlog generate -d fixtures --pending-every 5 --runs 3 --seed 42
  wptlog generate -d fixtures --no-repeat-view --show-tests`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	defaults := wptgen.DefaultGenerateOptions
	generateCmd.Flags().StringVarP(&genDir, "dir", "d", "wpt-fixtures", "Output directory")
	generateCmd.Flags().IntVarP(&genTestCount, "tests", "n", defaults.TestCount, "Number of tests listed in the export window")
	generateCmd.Flags().IntVar(&genLeadingRows, "leading-rows", defaults.LeadingRows, "Rows before the first exported test, header included")
	generateCmd.Flags().IntVar(&genTrailingRows, "trailing-rows", defaults.TrailingRows, "Rows after the last exported test")
	generateCmd.Flags().IntVar(&genPendingEvery, "pending-every", 0, "Make every nth test a pending one (0 = none)")
	generateCmd.Flags().IntVarP(&genRuns, "runs", "r", defaults.RunsPerTest, "Runs per completed test")
	generateCmd.Flags().IntVar(&genFrames, "frames", defaults.FramesPerView, "Video frames per view")
	generateCmd.Flags().BoolVar(&genNoRepeat, "no-repeat-view", false, "Emit first views only")
	generateCmd.Flags().Int64VarP(&genSeed, "seed", "s", 0, "Random seed for reproducibility (0 = use current time)")
	generateCmd.Flags().StringVar(&genDictPath, "dict", "/usr/share/dict/words", "Dictionary file used for host names")
	generateCmd.Flags().BoolVar(&genShowTests, "show-tests", false, "List the generated tests")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genTestCount < 0 || genLeadingRows < 1 || genTrailingRows < 0 {
		return fmt.Errorf("row counts must not be negative and at least one leading row is needed")
	}

	opts := wptgen.GenerateOptions{
		TestCount:      genTestCount,
		LeadingRows:    genLeadingRows,
		TrailingRows:   genTrailingRows,
		PendingEvery:   genPendingEvery,
		RunsPerTest:    genRuns,
		FramesPerView:  genFrames,
		SkipRepeatView: genNoRepeat,
		Seed:           genSeed,
		DictionaryPath: genDictPath,
	}

	fmt.Printf("Generating %d tests into %s...\n", genTestCount, genDir)

	fixture, err := wptgen.GenerateToDir(genDir, opts)
	if err != nil {
		return fmt.Errorf("failed to generate fixtures: %w", err)
	}

	pending := 0
	for _, tf := range fixture.Tests {
		if tf.Pending {
			pending++
		}
	}

	fmt.Printf("\n✓ Generated test log: %s\n", genDir)
	fmt.Printf("  Tests: %d (%d pending)\n", len(fixture.Tests), pending)
	fmt.Printf("  Rows: %d..%d\n", genLeadingRows, genLeadingRows+genTestCount-1)

	if genShowTests {
		fmt.Printf("\nTests:\n")
		for _, tf := range fixture.Tests {
			state := fmt.Sprintf("%d runs", tf.Runs)
			if tf.Pending {
				state = "pending"
			}
			fmt.Printf("  • row %d  %s  %s  (%s)\n", tf.Row, tf.Ref.ID, tf.Ref.URL, state)
		}
	}

	return nil
}
