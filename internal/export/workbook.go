package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ayushitiwary/CallSense/internal/config"
	"github.com/ayushitiwary/CallSense/internal/types"
)

const (
	sheetSummary = "Summary"
	sheetScores  = "QA Scores"
	sheetRouting = "Routing"
)

// WriteWorkbook writes one spreadsheet covering the given results: a summary
// sheet per call, the scored dimensions with their rating labels, and the
// routing output. Rejected and failed runs appear on the summary sheet with
// their reason so batch reports stay honest about what was skipped.
func WriteWorkbook(w io.Writer, results []types.Result, cfg config.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetSummary)
	if _, err := f.NewSheet(sheetScores); err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if _, err := f.NewSheet(sheetRouting); err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}

	setRow(f, sheetSummary, 1, "Call", "Status", "Category", "Sentiment", "Customer Issue", "Resolution", "Key Points", "Detail")
	setRow(f, sheetScores, 1, "Call", "Empathy", "Professionalism", "Resolution", "Compliance", "Overall", "Rating")
	setRow(f, sheetRouting, 1, "Call", "Recommendations", "Tags", "Action Items")

	scoreRow := 2
	routingRow := 2
	for i, res := range results {
		call := i + 1
		switch res.Status {
		case types.StatusRejected:
			setRow(f, sheetSummary, call+1, call, string(res.Status), "", "", "", "", "", res.Reason)
			continue
		case types.StatusFailed:
			setRow(f, sheetSummary, call+1, call, string(res.Status), "", "", "", "", "", res.Error)
			continue
		}

		a := res.Analysis
		setRow(f, sheetSummary, call+1, call, string(res.Status),
			string(a.Summary.Category), string(a.Summary.Sentiment),
			a.Summary.CustomerIssue, a.Summary.Resolution,
			strings.Join(a.Summary.KeyPoints, "; "), "")

		q := a.QAScores
		setRow(f, sheetScores, scoreRow, call,
			q.Empathy, q.Professionalism, q.Resolution, q.Compliance,
			q.Overall(), Label(q.Overall(), cfg))
		scoreRow++

		setRow(f, sheetRouting, routingRow, call,
			strings.Join(a.Recommendations, "; "),
			strings.Join(a.Tags, ", "),
			strings.Join(a.Summary.ActionItems, "; "))
		routingRow++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}
