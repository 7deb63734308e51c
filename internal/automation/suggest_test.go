package automation

import (
	"testing"

	"backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSOP(title string, steps ...string) *models.SOP {
	return &models.SOP{
		ID:    "sop-1",
		Title: title,
		Steps: steps,
	}
}

func TestSuggestAutomations_InvoiceExample(t *testing.T) {
	sop := newTestSOP("Monthly Invoice Processing",
		"Download invoice reports",
		"Send confirmation emails to vendors",
		"Update the spreadsheet with totals",
	)

	suggestions := SuggestAutomations(sop, DefaultPatterns)
	require.Len(t, suggestions, 2)

	assert.Equal(t, "Monthly Invoice Processing - Email Notification", suggestions[0].Name)
	assert.Equal(t, []int{1}, suggestions[0].MatchedStepIndices)
	assert.Equal(t, []string{"Email", "Gmail"}, suggestions[0].ConnectedApps)
	assert.Equal(t, models.AutomationStatusSuggested, suggestions[0].Status)
	assert.Equal(t, "sop-1", suggestions[0].SOPID)

	assert.Equal(t, "Monthly Invoice Processing - Spreadsheet Automation", suggestions[1].Name)
	assert.Equal(t, []int{2}, suggestions[1].MatchedStepIndices)
}

func TestSuggestAutomations_NoMatches(t *testing.T) {
	sop := newTestSOP("Receipt Review", "Review receipts manually")

	suggestions := SuggestAutomations(sop, DefaultPatterns)
	assert.Empty(t, suggestions)
}

func TestSuggestAutomations_ZeroSteps(t *testing.T) {
	sop := newTestSOP("Empty SOP")

	suggestions := SuggestAutomations(sop, DefaultPatterns)
	assert.Empty(t, suggestions)
}

func TestSuggestAutomations_DeduplicatesAcrossSteps(t *testing.T) {
	sop := newTestSOP("Weekly Reporting",
		"Send weekly report",
		"Archive receipts",
		"Email vendors",
	)

	suggestions := SuggestAutomations(sop, DefaultPatterns)
	require.Len(t, suggestions, 1)

	assert.Equal(t, "Weekly Reporting - Email Notification", suggestions[0].Name)
	assert.Equal(t, []int{0, 2}, suggestions[0].MatchedStepIndices)
}

func TestSuggestAutomations_FirstEncounterOrder(t *testing.T) {
	// 先在步骤 0 命中表位靠后的模式，再在步骤 1 命中表位靠前的模式，
	// 输出应按首次命中顺序而非表序
	sop := newTestSOP("Quarter Close",
		"Track totals in the spreadsheet",
		"Send summary email",
	)

	suggestions := SuggestAutomations(sop, DefaultPatterns)
	require.Len(t, suggestions, 2)

	assert.Equal(t, "Quarter Close - Spreadsheet Automation", suggestions[0].Name)
	assert.Equal(t, "Quarter Close - Email Notification", suggestions[1].Name)
}

func TestSuggestAutomations_CaseInsensitive(t *testing.T) {
	sop := newTestSOP("Notifications", "SEND the NOTIFY EMAIL")

	suggestions := SuggestAutomations(sop, DefaultPatterns)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Notifications - Email Notification", suggestions[0].Name)
}

func TestSuggestAutomations_DistinctNamesBoundedByTable(t *testing.T) {
	sop := newTestSOP("Everything",
		"Send email to the team on slack",
		"Track data in the spreadsheet and schedule a meeting",
		"Collect input via the survey form",
	)

	suggestions := SuggestAutomations(sop, DefaultPatterns)
	assert.LessOrEqual(t, len(suggestions), len(DefaultPatterns))

	names := make(map[string]bool)
	for _, s := range suggestions {
		assert.False(t, names[s.Name], "建议名称不应重复: %s", s.Name)
		names[s.Name] = true
	}
}

func TestSuggestAutomations_Idempotent(t *testing.T) {
	sop := newTestSOP("Monthly Invoice Processing",
		"Download invoice reports",
		"Send confirmation emails to vendors",
		"Update the spreadsheet with totals",
	)

	first := SuggestAutomations(sop, DefaultPatterns)
	second := SuggestAutomations(sop, DefaultPatterns)
	assert.Equal(t, first, second)
}

func TestSuggestAutomations_DescriptionListsOneBasedSteps(t *testing.T) {
	sop := newTestSOP("Reporting",
		"Send weekly report",
		"Archive receipts",
		"Email vendors",
	)

	suggestions := SuggestAutomations(sop, DefaultPatterns)
	require.Len(t, suggestions, 1)
	assert.Contains(t, suggestions[0].Description, "step 1, 3")
}
