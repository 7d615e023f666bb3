package study

import (
	"github.com/go-playground/validator/v10"
)

var (
	goalHoursTag  = "goalhours"
	goalHoursText = "goal must be one of 5, 10, 15 ... 50 hours"
)

// goalHoursValidation checks that the goal is in the allowed discrete set.
func goalHoursValidation(fl validator.FieldLevel) bool {
	h := int(fl.Field().Int())
	for _, opt := range GoalOptions {
		if h == opt {
			return true
		}
	}
	return false
}
