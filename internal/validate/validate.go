// ABOUTME: Form-level input checks run before a service call
// ABOUTME: Used by CLI flags and huh form validators; services never validate

package validate

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/logger"
)

const (
	MinRadius     = 1
	MaxRadius     = 100
	maxNameLength = 255
)

var (
	amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	colorPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// FieldError names the offending form field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Name requires a non-blank value no longer than 255 characters.
func Name(field, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return fieldErr(field, "is required")
	}
	if len(v) > maxNameLength {
		return fieldErr(field, "must be at most %d characters", maxNameLength)
	}
	return nil
}

// OpportunityStatus checks s against the backend's status choices.
func OpportunityStatus(s string) error {
	if !slices.Contains(client.OpportunityStatuses, s) {
		return fieldErr("status", "%q is not one of %s", logger.Sanitize(s), strings.Join(client.OpportunityStatuses, ", "))
	}
	return nil
}

// OpportunityType checks s against the backend's type choices.
func OpportunityType(s string) error {
	if !slices.Contains(client.OpportunityTypes, s) {
		return fieldErr("type", "%q is not one of %s", logger.Sanitize(s), strings.Join(client.OpportunityTypes, ", "))
	}
	return nil
}

// Priorities lists reminder priorities from lowest to highest
var Priorities = []string{client.PriorityLow, client.PriorityMedium, client.PriorityHigh, client.PriorityUrgent}

// Priority checks a reminder priority. Empty means the backend default.
func Priority(s string) error {
	if s == "" || slices.Contains(Priorities, s) {
		return nil
	}
	return fieldErr("priority", "%q is not one of %s", logger.Sanitize(s), strings.Join(Priorities, ", "))
}

// Amount parses a positive money amount with at most two decimals.
func Amount(s string) (client.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if !amountPattern.MatchString(s) {
		return "", fieldErr("amount", "must be a number with at most two decimals")
	}
	if f, _ := strconv.ParseFloat(s, 64); f <= 0 {
		return "", fieldErr("amount", "must be greater than zero")
	}
	return client.Decimal(s), nil
}

// Radius checks a discovery search radius in miles.
func Radius(r int) error {
	if r < MinRadius || r > MaxRadius {
		return fieldErr("radius", "must be between %d and %d miles", MinRadius, MaxRadius)
	}
	return nil
}

// Color checks a #rrggbb category color.
func Color(s string) error {
	if !colorPattern.MatchString(s) {
		return fieldErr("color", "must look like #1f77b4")
	}
	return nil
}

// Date checks a YYYY-MM-DD date. Empty is allowed.
func Date(field, s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fieldErr(field, "must be a date like 2024-05-31")
	}
	return nil
}

// paramRange bounds one numeric edit parameter
type paramRange struct {
	name     string
	min, max float64
	def      float64
}

// Edit parameter ranges match the sliders of the web editor.
var editParams = map[string][]paramRange{
	client.EditTrim: {
		{name: "start_ms", min: 0, max: math.MaxFloat64, def: 0},
		{name: "end_ms", min: 0, max: math.MaxFloat64, def: 30000},
	},
	client.EditVolume: {
		{name: "volume_change_db", min: -12, max: 12, def: 0},
	},
	client.EditReverb: {
		{name: "room_scale", min: 0, max: 1, def: 0.7},
		{name: "damping", min: 0, max: 1, def: 0.5},
	},
	client.EditSpeed: {
		{name: "speed_factor", min: 0.5, max: 2.0, def: 1.0},
	},
}

// EditTypes lists supported audio edits in menu order
var EditTypes = []string{client.EditTrim, client.EditVolume, client.EditReverb, client.EditSpeed}

// EditType checks an audio edit type.
func EditType(t string) error {
	if _, ok := editParams[t]; !ok {
		return fieldErr("type", "%q is not one of %s", logger.Sanitize(t), strings.Join(EditTypes, ", "))
	}
	return nil
}

// EditParamNames returns the parameter names for an edit type.
func EditParamNames(editType string) []string {
	var names []string
	for _, p := range editParams[editType] {
		names = append(names, p.name)
	}
	return names
}

// DefaultEditParams returns the starting values for an edit type.
func DefaultEditParams(editType string) map[string]any {
	out := map[string]any{}
	for _, p := range editParams[editType] {
		out[p.name] = p.def
	}
	return out
}

// EditParams checks that params holds exactly the numeric parameters of
// editType, each within range. Missing parameters are filled with defaults.
func EditParams(editType string, params map[string]any) error {
	if err := EditType(editType); err != nil {
		return err
	}
	for name := range params {
		if !slices.Contains(EditParamNames(editType), name) {
			return fieldErr(name, "is not a %s parameter", editType)
		}
	}
	for _, p := range editParams[editType] {
		raw, ok := params[p.name]
		if !ok {
			params[p.name] = p.def
			continue
		}
		v, ok := toFloat(raw)
		if !ok {
			return fieldErr(p.name, "must be a number")
		}
		if v < p.min || v > p.max {
			return fieldErr(p.name, "must be between %g and %g", p.min, p.max)
		}
		params[p.name] = v
	}
	if editType == client.EditTrim {
		start, _ := toFloat(params["start_ms"])
		end, _ := toFloat(params["end_ms"])
		if end <= start {
			return fieldErr("end_ms", "must be after start_ms")
		}
	}
	return nil
}

// ParseParams turns k=v pairs from the command line into edit parameters.
func ParseParams(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", logger.Sanitize(pair))
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fieldErr(k, "must be a number")
		}
		out[strings.TrimSpace(k)] = f
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
