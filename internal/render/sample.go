package render

import (
	"time"

	"github.com/dmitrymomot/remindr/internal/model"
)

// SampleVariables returns the variable set used for previews and test
// sends. An empty email falls back to a placeholder address.
func SampleVariables(now time.Time, email string) map[string]string {
	if email == "" {
		email = "john@example.com"
	}
	return map[string]string{
		model.VarName:     "John Doe",
		model.VarEmail:    email,
		model.VarService:  "Premium Plan",
		model.VarDate:     model.FormatDate(now),
		model.VarNextDate: model.FormatDate(now.AddDate(0, 0, 30)),
	}
}
