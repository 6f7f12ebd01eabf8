package validators

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/timezone"
)

// Register adiciona as regras customizadas ao validator usado pelo gin
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"date":           isDate,
		"clock":          isClock,
		"schedulestatus": isScheduleStatus,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func isDate(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := timezone.ParseDate(value)
	return err == nil
}

func isClock(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return timezone.IsClock(value)
}

func isScheduleStatus(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return domain.Status(value).Valid()
}
