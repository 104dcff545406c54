package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ayushitiwary/CallSense/internal/types"
)

func TestWriteWorkbook(t *testing.T) {
	results := []types.Result{
		{Status: types.StatusDone, Analysis: sampleAnalysis()},
		{Status: types.StatusRejected, Reason: "input is empty"},
		{Status: types.StatusFailed, Stage: "QualityScoring", Error: "QualityScoring: provider unavailable"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, results, thresholds()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{sheetSummary, sheetScores, sheetRouting}, f.GetSheetList())

	category, err := f.GetCellValue(sheetSummary, "C2")
	require.NoError(t, err)
	assert.Equal(t, "billing", category)

	rejectedDetail, err := f.GetCellValue(sheetSummary, "H3")
	require.NoError(t, err)
	assert.Equal(t, "input is empty", rejectedDetail)

	overall, err := f.GetCellValue(sheetScores, "F2")
	require.NoError(t, err)
	assert.Equal(t, "7.5", overall)

	rating, err := f.GetCellValue(sheetScores, "G2")
	require.NoError(t, err)
	assert.Equal(t, "Good", rating)

	// rejected and failed calls never reach the scores sheet
	empty, err := f.GetCellValue(sheetScores, "A3")
	require.NoError(t, err)
	assert.Empty(t, empty)

	tags, err := f.GetCellValue(sheetRouting, "C2")
	require.NoError(t, err)
	assert.Equal(t, "billing, neutral", tags)
}
