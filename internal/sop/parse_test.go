package sop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompletion_WellFormed(t *testing.T) {
	content := `Title: Monthly Invoice Processing
Description: Process vendor invoices at month end.
Steps:
1. Download invoice reports
2. Send confirmation emails to vendors
3. Update the spreadsheet with totals`

	result, err := ParseCompletion(content)
	require.NoError(t, err)

	assert.Equal(t, "Monthly Invoice Processing", result.Title)
	assert.Equal(t, "Process vendor invoices at month end.", result.Description)
	assert.Equal(t, []string{
		"Download invoice reports",
		"Send confirmation emails to vendors",
		"Update the spreadsheet with totals",
	}, result.Steps)
}

func TestParseCompletion_ExtraWhitespaceAndParenNumbering(t *testing.T) {
	content := `  Title:   Expense Reports
Description: Handle expense reports.
Steps:
  1)  Collect receipts
  2)  Enter data`

	result, err := ParseCompletion(content)
	require.NoError(t, err)

	assert.Equal(t, "Expense Reports", result.Title)
	assert.Equal(t, []string{"Collect receipts", "Enter data"}, result.Steps)
}

func TestParseCompletion_MissingStepsMarker(t *testing.T) {
	content := `Title: Something
Description: Something else.
1. A step without the marker`

	_, err := ParseCompletion(content)
	assert.ErrorIs(t, err, ErrMalformedGeneration)
}

func TestParseCompletion_ZeroSteps(t *testing.T) {
	content := `Title: Something
Description: Something else.
Steps:`

	_, err := ParseCompletion(content)
	assert.ErrorIs(t, err, ErrMalformedGeneration)
}

func TestParseCompletion_MissingTitle(t *testing.T) {
	content := `Description: Something else.
Steps:
1. A step`

	_, err := ParseCompletion(content)
	assert.ErrorIs(t, err, ErrMalformedGeneration)
}

func TestParseCompletion_IgnoresNonStepLinesInStepsBlock(t *testing.T) {
	content := `Title: Payroll Run
Description: Run monthly payroll.
Steps:
1. Export timesheets
Note: double-check overtime
2. Approve payments`

	result, err := ParseCompletion(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"Export timesheets", "Approve payments"}, result.Steps)
}
