package automation

// 搭建复杂度
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// Pattern 自动化模式：关键词到自动化模板的静态映射
// 进程启动时加载一次，全部请求只读共享
type Pattern struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Keywords        []string `json:"keywords"`
	RequiredApps    []string `json:"requiredApps"`
	SetupComplexity string   `json:"setupComplexity"`
}

// DefaultPatterns 内置模式表
// 顺序即遍历顺序，决定建议的输出次序，不要随意调整
var DefaultPatterns = []Pattern{
	{
		Name:            "Email Notification",
		Description:     "Automatically send email notifications based on SOP steps",
		Keywords:        []string{"email", "send", "notify", "message"},
		RequiredApps:    []string{"Email", "Gmail"},
		SetupComplexity: ComplexityLow,
	},
	{
		Name:            "Slack Integration",
		Description:     "Send updates and notifications to Slack channels",
		Keywords:        []string{"slack", "chat", "message", "notify", "team"},
		RequiredApps:    []string{"Slack"},
		SetupComplexity: ComplexityLow,
	},
	{
		Name:            "Spreadsheet Automation",
		Description:     "Automatically update spreadsheets with data from SOP execution",
		Keywords:        []string{"spreadsheet", "excel", "data", "record", "track"},
		RequiredApps:    []string{"Google Sheets", "Excel Online"},
		SetupComplexity: ComplexityMedium,
	},
	{
		Name:            "Calendar Management",
		Description:     "Create calendar events and reminders for SOP tasks",
		Keywords:        []string{"calendar", "schedule", "meeting", "appointment"},
		RequiredApps:    []string{"Google Calendar", "Outlook Calendar"},
		SetupComplexity: ComplexityMedium,
	},
	{
		Name:            "Form Processing",
		Description:     "Process form submissions and trigger follow-up actions",
		Keywords:        []string{"form", "survey", "collect", "input"},
		RequiredApps:    []string{"Google Forms", "TypeForm", "Webhook"},
		SetupComplexity: ComplexityMedium,
	},
}
