// Package batch reads call transcripts out of a spreadsheet and runs each
// one through the pipeline in sequence. Column positions are detected from
// the header row so exports from different telephony systems load without
// configuration.
package batch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ayushitiwary/CallSense/internal/logger"
	"github.com/ayushitiwary/CallSense/internal/pipeline"
	"github.com/ayushitiwary/CallSense/internal/types"
)

// Record is one spreadsheet row worth analyzing.
type Record struct {
	CallID     string `json:"call_id"`
	Transcript string `json:"transcript"`
}

// Load reads records from the first sheet of an xlsx document.
func Load(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("spreadsheet has no data rows")
	}

	transcriptIdx := -1
	callIDIdx := -1
	for i, h := range rows[0] {
		n := strings.ToLower(strings.TrimSpace(h))
		switch {
		case transcriptIdx == -1 && (strings.Contains(n, "transcript") || strings.Contains(n, "text")):
			transcriptIdx = i
		case callIDIdx == -1 && (strings.Contains(n, "call id") || strings.Contains(n, "callid") || n == "id"):
			callIDIdx = i
		}
	}
	if transcriptIdx == -1 {
		return nil, fmt.Errorf("no transcript column found in header %v", rows[0])
	}

	var out []Record
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rec := Record{}
		if callIDIdx >= 0 && callIDIdx < len(row) {
			rec.CallID = strings.TrimSpace(row[callIDIdx])
		}
		if rec.CallID == "" {
			rec.CallID = fmt.Sprintf("row-%d", i+1)
		}
		if transcriptIdx < len(row) {
			rec.Transcript = row[transcriptIdx]
		}
		// blank rows are skipped quietly; the pipeline would only reject them
		if strings.TrimSpace(rec.Transcript) == "" {
			continue
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable transcript rows")
	}
	return out, nil
}

// Run processes the records strictly one at a time, in order. A rejection or
// failure of one call never stops the rest of the batch.
func Run(ctx context.Context, p *pipeline.Pipeline, records []Record) []types.Result {
	log := logger.New().WithComponent("batch")
	results := make([]types.Result, 0, len(records))
	for _, rec := range records {
		log.WithField("call_id", rec.CallID).Info("processing batch call")
		res := p.ProcessCall(ctx, rec.Transcript)
		log.WithField("call_id", rec.CallID).WithField("status", res.Status).Info("batch call finished")
		results = append(results, res)
	}
	return results
}
