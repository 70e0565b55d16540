package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Slots are half-open HH:MM labels on a 24h clock.
var timeSlotRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterValidations installs the custom binding validators. Call once at
// startup, before the first request is bound.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return timeSlotRe.MatchString(fl.Field().String())
	})
}
