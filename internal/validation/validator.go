package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// Use a singleton validator instance to avoid recreating it
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their yaml key.
		validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]

			if name == "-" {
				return ""
			}

			if name == "" {
				return fld.Name
			}

			return name
		})
	})

	return validatorInstance
}

// Validate checks input against its validate tags. The result maps each
// invalid field to its messages, looked up as "<field>.<tag>" in messages.
// It is nil when input is valid.
func Validate(input any, messages map[string]string) map[string][]string {
	err := getValidator().Struct(input)

	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		return map[string][]string{"": {err.Error()}}
	}

	e := make(map[string][]string)

	for _, x := range validationErrors {
		fieldKey := x.Field()
		messageKey := fmt.Sprintf("%s.%s", fieldKey, x.Tag())
		message, ok := messages[messageKey]

		if !ok {
			slog.Debug("Validation error message not found", "key", messageKey)

			message = fmt.Sprintf("failed the %s check", x.Tag())
		}

		e[fieldKey] = append(e[fieldKey], message)
	}

	return e
}
