package handlers

import (
	"errors"
	"net/http"
	"strings"

	ta "github.com/mymmrac/telego/telegoapi"
)

// failureKind classifies a failed Bot API call.
type failureKind int

const (
	failureTransport failureKind = iota // the call did not complete
	failureNotFound                     // the API says the target does not exist
	failureForbidden                    // the bot has no access to the target
	failureRejected                     // any other API-level rejection
)

var (
	forbiddenHints = []string{
		"forbidden",
		"not enough rights",
		"have no rights",
		"inaccessible",
		"bot is not a member",
		"bot was kicked",
		"need administrator rights",
	}
	notFoundHints = []string{
		"not found",
		"user_id_invalid",
		"participant_id_invalid",
		"invalid user_id",
		"user_not_participant",
	}
)

// classifyFailure inspects err for a Bot API error and sorts it by cause.
func classifyFailure(err error) failureKind {
	var apiErr *ta.Error
	if !errors.As(err, &apiErr) {
		return failureTransport
	}

	desc := strings.ToLower(apiErr.Description)
	if apiErr.ErrorCode == http.StatusForbidden || containsAny(desc, forbiddenHints) {
		return failureForbidden
	}
	if containsAny(desc, notFoundHints) {
		return failureNotFound
	}
	return failureRejected
}

// apiErrorDescription returns the API's own description of err, if err is an API error.
func apiErrorDescription(err error) (string, bool) {
	var apiErr *ta.Error
	if !errors.As(err, &apiErr) {
		return "", false
	}
	return apiErr.Description, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
