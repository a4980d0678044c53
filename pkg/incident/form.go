package incident

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxShortDescription is the longest short description accepted, in code
// points.
const MaxShortDescription = 160

// Default field values for a new incident.
const (
	DefaultPriority = "3"
	DefaultImpact   = "3"
	DefaultUrgency  = "3"
)

// ValidationError reports a form field that cannot be submitted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Fields are the values of the incident creation form.
type Fields struct {
	ShortDescription string
	Description      string
	Priority         string
	Impact           string
	Urgency          string
	Category         string
	Caller           string
	AssignmentGroup  string
}

// NewFields returns the form defaults.
func NewFields() Fields {
	return Fields{
		Priority: DefaultPriority,
		Impact:   DefaultImpact,
		Urgency:  DefaultUrgency,
	}
}

// Validate checks the required fields.
func (f Fields) Validate() error {
	sd := strings.TrimSpace(f.ShortDescription)
	if sd == "" {
		return &ValidationError{Field: "short description", Reason: "is required"}
	}
	if utf8.RuneCountInString(sd) > MaxShortDescription {
		return &ValidationError{Field: "short description", Reason: fmt.Sprintf("must be at most %d characters", MaxShortDescription)}
	}
	return nil
}

// Payload is the create body. Optional fields are sent only when set.
func (f Fields) Payload() map[string]any {
	p := map[string]any{
		"short_description": strings.TrimSpace(f.ShortDescription),
		"priority":          orDefault(f.Priority, DefaultPriority),
		"impact":            orDefault(f.Impact, DefaultImpact),
		"urgency":           orDefault(f.Urgency, DefaultUrgency),
	}
	optional := map[string]string{
		"description":      f.Description,
		"category":         f.Category,
		"caller_id":        f.Caller,
		"assignment_group": f.AssignmentGroup,
	}
	for k, v := range optional {
		if v = strings.TrimSpace(v); v != "" {
			p[k] = v
		}
	}
	return p
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
