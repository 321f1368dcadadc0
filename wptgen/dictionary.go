package wptgen

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// fallback word list for when /usr/share/dict/words doesn't exist (windows, containers)
var fallbackWords = []string{
	"news", "shop", "travel", "weather", "sports", "music", "video",
	"search", "mail", "maps", "photos", "cloud", "store", "market",
	"bank", "health", "recipes", "games", "books", "movies", "cars",
	"homes", "jobs", "tickets", "flights", "hotels", "fashion", "tech",
	"science", "finance", "blog", "forum", "wiki", "docs", "status",
	"portal", "social", "dating", "radio", "podcast", "kids", "garden",
}

// Dictionary holds a list of words for random selection
type Dictionary struct {
	words []string
}

// LoadDictionary loads words from a dictionary file
func LoadDictionary(path string) (*Dictionary, error) {
	if path == "" {
		return &Dictionary{words: fallbackWords}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		// fallback to built-in word list if file doesn't exist
		if os.IsNotExist(err) {
			return &Dictionary{words: fallbackWords}, nil
		}
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())

		// host labels: short, lower case, letters only
		if len(word) >= 3 && len(word) <= 12 && isAlpha(word) {
			words = append(words, strings.ToLower(word))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("no valid words found in dictionary")
	}

	return &Dictionary{words: words}, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// RandomWord returns a random word from the dictionary
func (d *Dictionary) RandomWord(rng *rand.Rand) string {
	if len(d.words) == 0 {
		return "site"
	}
	return d.words[rng.Intn(len(d.words))]
}

// Size returns the number of words in the dictionary
func (d *Dictionary) Size() int {
	return len(d.words)
}
