package automation

import (
	"fmt"
	"strings"

	"backend/internal/models"
)

// SuggestedAutomation 建议的自动化，按需计算，不持久化
// MatchedStepIndices 为 0 基索引；description 中展示给用户的步骤编号为 1 基
type SuggestedAutomation struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Status             string   `json:"status"`
	ConnectedApps      []string `json:"connectedApps"`
	SOPID              string   `json:"sopId"`
	MatchedStepIndices []int    `json:"matchedStepIndices"`
}

// SuggestAutomations 根据 SOP 步骤文本计算自动化建议
// 纯函数：同一 SOP 与同一模式表的输出完全确定
//   - 匹配规则：关键词对步骤全文做大小写不敏感的子串匹配，任一关键词命中即算该模式命中
//   - 去重规则：同一模式命中多个步骤只产出一条建议，MatchedStepIndices 记录全部命中步骤
//   - 输出顺序：按扫描步骤时首次命中的先后排列
func SuggestAutomations(sop *models.SOP, patterns []Pattern) []SuggestedAutomation {
	suggestions := make([]SuggestedAutomation, 0)
	// 模式名 -> suggestions 中的下标
	seen := make(map[string]int)

	for stepIdx, step := range sop.Steps {
		stepLower := strings.ToLower(step)

		for _, pattern := range patterns {
			if !matchesStep(stepLower, pattern.Keywords) {
				continue
			}

			if pos, ok := seen[pattern.Name]; ok {
				suggestions[pos].MatchedStepIndices = append(suggestions[pos].MatchedStepIndices, stepIdx)
				continue
			}

			seen[pattern.Name] = len(suggestions)
			suggestions = append(suggestions, SuggestedAutomation{
				Name:               fmt.Sprintf("%s - %s", sop.Title, pattern.Name),
				Description:        pattern.Description,
				Status:             models.AutomationStatusSuggested,
				ConnectedApps:      pattern.RequiredApps,
				SOPID:              sop.ID,
				MatchedStepIndices: []int{stepIdx},
			})
		}
	}

	// 命中步骤收集完后再拼接展示文案
	for i := range suggestions {
		suggestions[i].Description = fmt.Sprintf("%s (triggered by step %s)",
			suggestions[i].Description,
			formatStepNumbers(suggestions[i].MatchedStepIndices),
		)
	}

	return suggestions
}

// matchesStep 任一关键词为步骤文本的子串即命中
func matchesStep(stepLower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(stepLower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// formatStepNumbers 将 0 基索引转为 1 基编号的展示串，如 "2, 3"
func formatStepNumbers(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = fmt.Sprintf("%d", idx+1)
	}
	return strings.Join(parts, ", ")
}
