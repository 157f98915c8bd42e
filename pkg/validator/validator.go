package validator

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterClinicRules installs the custom binding tags used by the request
// models: clinicdate (YYYY-MM-DD) and clinicslot (HH:MM).
func RegisterClinicRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("clinicdate", validDate); err != nil {
		return err
	}
	return v.RegisterValidation("clinicslot", validSlot)
}

func validDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validSlot(fl validator.FieldLevel) bool {
	return clockRe.MatchString(fl.Field().String())
}
