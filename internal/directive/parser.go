package directive

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*?"new_task".*?:.*?"(.*?)".*?\}`)
	taskFieldPattern  = regexp.MustCompile(`"new_task"["\s:]+([^"]+?)["\s}]`)
	quotedPattern     = regexp.MustCompile(`"([^"]+)"`)
)

const newTaskField = "new_task"

// Parse turns raw backend output into a Result via an ordered fallback
// chain. Each strategy is tried only if the previous one produced no
// non-empty task. The chain is total: it always returns a non-empty task and
// never fails.
func Parse(raw string) Result {
	content := stripCodeFences(raw)

	var payload struct {
		NewTask string `json:"new_task"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		if task := strings.TrimSpace(payload.NewTask); task != "" {
			return Result{Task: task}
		}
	}

	if m := jsonObjectPattern.FindStringSubmatch(content); m != nil {
		if task := strings.TrimSpace(m[1]); task != "" {
			return Result{Task: task}
		}
	}

	if m := taskFieldPattern.FindStringSubmatch(content); m != nil {
		if task := strings.TrimSpace(m[1]); task != "" {
			return Result{Task: task}
		}
	}

	if idx := strings.Index(content, newTaskField); idx >= 0 {
		rest := content[idx+len(newTaskField):]
		if task := strings.Trim(rest, "\":,. \n}{"); task != "" {
			return Result{Task: task}
		}
	}

	if m := quotedPattern.FindStringSubmatch(content); m != nil {
		if task := strings.TrimSpace(m[1]); task != "" {
			return Result{Task: task}
		}
	}

	return Result{Task: TaskIdle}
}

// stripCodeFences removes wrapping backticks and an optional leading "json"
// language tag left over from markdown-formatted completions.
func stripCodeFences(raw string) string {
	content := strings.TrimSpace(raw)
	content = strings.Trim(content, "`")
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "json") {
		content = content[len("json"):]
	}
	return strings.TrimSpace(content)
}
