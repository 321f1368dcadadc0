package motor

import "github.com/pb33f/wptlog/motor/model"

// Flatten expands records into report rows: one row per present view, in
// record, run, then first-before-repeat order. A record without runs,
// pending or completed, becomes a single row of its status fields.
func Flatten(records []*model.RunRecord) []*model.Row {
	rows := make([]*model.Row, 0, ExpectedRowCount(records))
	for _, record := range records {
		rows = append(rows, recordRows(record)...)
	}
	return rows
}

func recordRows(record *model.RunRecord) []*model.Row {
	if record.Kind() == model.RecordPending || len(record.Runs) == 0 {
		return []*model.Row{record.StatusFields()}
	}

	rows := make([]*model.Row, 0, len(record.Runs)*2)
	for _, run := range record.Runs {
		if run.FirstView != nil {
			rows = append(rows, run.FirstView)
		}
		if run.RepeatView != nil {
			rows = append(rows, run.RepeatView)
		}
	}
	return rows
}

// ExpectedRowCount is the number of rows Flatten produces for records.
func ExpectedRowCount(records []*model.RunRecord) int {
	total := 0
	for _, record := range records {
		if record.Kind() == model.RecordPending || len(record.Runs) == 0 {
			total++
			continue
		}
		for _, run := range record.Runs {
			if run.FirstView != nil {
				total++
			}
			if run.RepeatView != nil {
				total++
			}
		}
	}
	return total
}
