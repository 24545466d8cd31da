package models

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validatorOnce = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
		return JobStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("stagestatus", func(fl validator.FieldLevel) bool {
		return StageStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("stagetype", func(fl validator.FieldLevel) bool {
		return StageType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("source", func(fl validator.FieldLevel) bool {
		return Source(fl.Field().String()).Valid()
	})
	return v
})

// Validate checks required fields, the interest range and every enumeration
func Validate(job *JobApplication) error {
	err := validatorOnce().Struct(job)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(fields, ", "))
}
