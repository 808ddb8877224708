package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stormlightlabs/docsift/internal/errors"
)

var validate = validator.New()

// Validate checks every section against its struct tags.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return invalid("invalid configuration", formatValidationError(err))
	}
	return nil
}

func invalid(msg string, cause error) error {
	return errors.New(errors.ErrCodeConfigInvalid, msg, cause).
		WithSuggestion("check the file shown by 'docsift config path'")
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: field is required", field))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s: must be greater than %s", field, e.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s", field, e.Param()))
		case "lt":
			msgs = append(msgs, fmt.Sprintf("%s: must be less than %s", field, e.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at most %s", field, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of %s", field, e.Param()))
		case "startswith":
			msgs = append(msgs, fmt.Sprintf("%s: must start with %q", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return stderrors.New(strings.Join(msgs, "; "))
}
