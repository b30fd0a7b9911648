package model

import (
	"slices"
	"time"
)

// Reserved variable names. They are always present in a dispatch variable
// set and take precedence over custom variables with the same key.
const (
	VarName     = "name"
	VarEmail    = "email"
	VarService  = "service"
	VarDate     = "date"
	VarNextDate = "nextDate"
)

// DateLayout formats dates exposed to templates, e.g. "March 5, 2026".
const DateLayout = "January 2, 2006"

// ReservedVariables lists the reserved names in display order.
var ReservedVariables = []string{VarName, VarEmail, VarService, VarDate, VarNextDate}

// IsReserved reports whether key is one of the reserved variable names.
func IsReserved(key string) bool {
	return slices.Contains(ReservedVariables, key)
}

// AllowedVariables returns the reserved names followed by the custom keys
// (sorted, reserved duplicates dropped).
func AllowedVariables(custom map[string]string) []string {
	out := slices.Clone(ReservedVariables)
	keys := make([]string, 0, len(custom))
	for k := range custom {
		if !IsReserved(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return append(out, keys...)
}

// FormatDate renders t with DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
