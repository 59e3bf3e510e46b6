package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseDetail extracts the human message from an error body. The backend
// sends "detail" either as a string or as a list of validation issues.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return s
		}

		var issues []validationIssue
		if err := json.Unmarshal(eb.Detail, &issues); err == nil {
			msgs := make([]string, 0, len(issues))
			for _, issue := range issues {
				msgs = append(msgs, formatIssue(issue))
			}
			return strings.Join(msgs, "; ")
		}

		if string(eb.Detail) != "null" {
			return string(eb.Detail)
		}
	}

	return eb.Message
}

func formatIssue(issue validationIssue) string {
	parts := make([]string, 0, len(issue.Loc))
	for _, p := range issue.Loc {
		// "body" is FastAPI's location prefix, not a field
		if s, ok := p.(string); ok && s == "body" && len(parts) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprint(p))
	}
	if len(parts) == 0 {
		return issue.Msg
	}
	return strings.Join(parts, ".") + ": " + issue.Msg
}
