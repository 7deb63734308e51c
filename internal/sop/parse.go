package sop

import (
	"regexp"
	"strings"
)

// stepLinePattern 匹配编号步骤行，如 "1. xxx"、"12) xxx"
var stepLinePattern = regexp.MustCompile(`^\s*\d+[.)]\s*(.+)$`)

// ParseCompletion 解析模型按约定格式输出的 SOP 文本
// 要求包含 Title:、Description:、Steps: 三个标记，且至少一条编号步骤；
// 任一条件不满足返回 ErrMalformedGeneration
func ParseCompletion(content string) (*GeneratedSOP, error) {
	lines := strings.Split(content, "\n")

	var title, description string
	var steps []string
	var sawSteps bool
	inSteps := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "Title:"):
			title = strings.TrimSpace(strings.TrimPrefix(trimmed, "Title:"))
			inSteps = false
		case strings.HasPrefix(trimmed, "Description:"):
			description = strings.TrimSpace(strings.TrimPrefix(trimmed, "Description:"))
			inSteps = false
		case strings.HasPrefix(trimmed, "Steps:"):
			sawSteps = true
			inSteps = true
		case inSteps:
			if m := stepLinePattern.FindStringSubmatch(trimmed); m != nil {
				step := strings.TrimSpace(m[1])
				if step != "" {
					steps = append(steps, step)
				}
			}
		}
	}

	if title == "" || description == "" || !sawSteps || len(steps) == 0 {
		return nil, ErrMalformedGeneration
	}

	return &GeneratedSOP{
		Title:       title,
		Description: description,
		Steps:       steps,
	}, nil
}
