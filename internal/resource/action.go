package resource

import (
	"strings"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
)

// Action is the closed set of public counter actions accepted on PATCH.
type Action string

const (
	ActionView     Action = "view"
	ActionHelpful  Action = "helpful"
	ActionDownload Action = "download"
)

// ParseAction accepts s only when it names one of allowed.
func ParseAction(s string, allowed ...Action) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if a == "" {
		return "", apperr.Required("action")
	}
	for _, ok := range allowed {
		if a == ok {
			return a, nil
		}
	}
	return "", apperr.Invalid("action", "unsupported action "+string(a))
}
