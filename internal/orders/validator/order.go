package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"coursework/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type OrderValidator struct {
	validate *validator.Validate
}

func NewOrderValidator() *OrderValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &OrderValidator{
		validate: v,
	}
}

func (v *OrderValidator) Validate(req *model.OrderRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *OrderValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			if err.Kind() == reflect.Slice {
				message = fmt.Sprintf("%s must contain at least %s item(s)", err.Field(), err.Param())
			} else if err.Kind() == reflect.Int {
				message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
			} else {
				message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
			}
		case "max":
			if err.Kind() == reflect.Slice {
				message = fmt.Sprintf("%s must contain at most %s items", err.Field(), err.Param())
			} else if err.Kind() == reflect.Int {
				message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
			} else {
				message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
			}
		case "mongodb":
			message = fmt.Sprintf("%s must be a 24 character hex lesson id, got %q", err.Field(), err.Value())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
