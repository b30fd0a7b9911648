package dispatch

import (
	"maps"
	"time"

	"github.com/dmitrymomot/remindr/internal/model"
)

// Variables builds the template variables for one send. Custom variables
// fill any key except the reserved ones. nextDate is the recipient's
// reference date when set, otherwise next. email is the normalized address
// the message is sent to.
func Variables(r *model.Recipient, now, next time.Time) map[string]string {
	vars := make(map[string]string, len(r.CustomVariables)+len(model.ReservedVariables))
	maps.Copy(vars, r.CustomVariables)

	nextDate := next
	if r.ReferenceDate != nil {
		nextDate = *r.ReferenceDate
	}

	vars[model.VarName] = r.Name
	vars[model.VarEmail] = model.NormalizeEmail(r.Email)
	vars[model.VarService] = r.Service
	vars[model.VarDate] = model.FormatDate(now)
	vars[model.VarNextDate] = model.FormatDate(nextDate)
	return vars
}
