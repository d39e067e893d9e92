package todoapi

import (
	"encoding/json"
	"strings"
)

// API paths. Task paths are formatted with the user UUID (and task UUID).
const (
	PathRegister   = "/api/auth/register"
	PathLogin      = "/api/auth/login"
	PathMe         = "/api/auth/me"
	PathTasks      = "/api/users/%s/tasks"
	PathTask       = "/api/users/%s/tasks/%s"
	PathTaskToggle = "/api/users/%s/tasks/%s/complete"
)

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// errorBody covers the error shapes the API is known to send:
// {"detail": "..."}, {"detail": [{"msg": "..."}]}, {"message": "..."} and
// {"error": "..."}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type validationIssue struct {
	Msg string `json:"msg"`
	Loc []any  `json:"loc"`
}

// parseErrorMessage extracts a server message from body, returning "" when the
// body is not one of the structured shapes.
func parseErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil && s != "" {
			return s
		}
		var issues []validationIssue
		if err := json.Unmarshal(eb.Detail, &issues); err == nil {
			msgs := make([]string, 0, len(issues))
			for _, issue := range issues {
				if issue.Msg != "" {
					msgs = append(msgs, issue.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Error
}
