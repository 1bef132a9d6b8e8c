package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gamedash/api/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterBindings adds the custom tags used in request structs to gin's
// validator: address, phone and game
func RegisterBindings() error {
	var err error

	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected binding validator engine")
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "uri", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}

			return f.Name
		})

		if err = v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
			_, err := NormalizeAddress(fl.Field().String())
			return err == nil
		}); err != nil {
			return
		}

		if err = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return PhoneValidator(fl.Field().String())
		}); err != nil {
			return
		}

		err = v.RegisterValidation("game", func(fl validator.FieldLevel) bool {
			_, err := model.ParseGameID(fl.Field().String())
			return err == nil
		})
	})

	return err
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors turns a binding error into a list of per field messages.
// Errors that don't come from the validator (bad JSON) yield nil
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}

	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "address":
		return ErrAddressInvalid.Error()
	case "phone":
		return ErrPhoneInvalid.Error()
	case "game":
		return "unsupported game"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "numeric":
		return "must only contain digits"
	default:
		return fmt.Sprintf("failed on the %s rule", fe.Tag())
	}
}
