// Package validators configures request validation.
package validators

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	appErr "github.com/sitepilot/engine/pkg/errors"
)

var (
	once     sync.Once
	instance *validator.Validate

	subdomainPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)
)

// New returns the shared validator. Field errors are reported by json name.
func New() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
			return subdomainPattern.MatchString(strings.ToLower(strings.TrimSpace(fl.Field().String())))
		})
		instance = v
	})
	return instance
}

// Struct validates s and returns a CodeInvalid AppError listing failed fields.
func Struct(s any) error {
	err := New().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErr.Wrap(err, appErr.CodeInvalid, "invalid request")
	}
	e := appErr.Invalid("invalid request")
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		e.WithMeta(fe.Field(), rule)
	}
	return e
}
