// Package improve holds the fixed set of resume improvement options.
package improve

import "strings"

// Option is a selectable improvement
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CustomValue is the value of the free-text option.
const CustomValue = "custom"

var options = []Option{
	{Value: "ats-optimize", Label: "Optimize for ATS (Applicant Tracking Systems)"},
	{Value: "skills-enhance", Label: "Enhance skills section"},
	{Value: "achievements-focus", Label: "Focus on achievements and metrics"},
	{Value: "format-improve", Label: "Improve formatting and structure"},
	{Value: "language-polish", Label: "Polish language and grammar"},
	{Value: "industry-specific", Label: "Tailor for specific industry"},
	{Value: CustomValue, Label: "Custom improvements"},
}

// Options returns a copy of the registry in display order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Labels returns the option labels in display order
func Labels() []string {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	return labels
}

// Lookup resolves a selection by label or value. Matching ignores case and
// surrounding whitespace.
func Lookup(selection string) (Option, bool) {
	s := strings.TrimSpace(selection)
	if s == "" {
		return Option{}, false
	}
	for _, o := range options {
		if strings.EqualFold(o.Label, s) || strings.EqualFold(o.Value, s) {
			return o, true
		}
	}
	return Option{}, false
}

// IsCustom reports whether selection picks the custom option.
func IsCustom(selection string) bool {
	o, ok := Lookup(selection)
	return ok && o.Value == CustomValue
}

// ShowsInstructions reports whether the custom instructions field is visible
// for the given selection.
func ShowsInstructions(selection string) bool {
	return IsCustom(selection)
}
