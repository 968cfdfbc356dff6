package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/theirongolddev/fitdex/internal/bucket"
	"github.com/theirongolddev/fitdex/internal/units"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their TOML key.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("units", func(fl validator.FieldLevel) bool {
			_, err := units.Parse(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("bucket", func(fl validator.FieldLevel) bool {
			_, err := bucket.Parse(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// Validate checks value ranges and enumerations. The error lists every
// offending key, e.g. "scan.workers must be >= 0".
func (c Config) Validate() error {
	err := engine().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Config.general.units"; drop the root type.
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		msgs = append(msgs, fmt.Sprintf("%s %s", key, describe(fe)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "units":
		return fmt.Sprintf("%q is not a unit system (metric or us)", fe.Value())
	case "bucket":
		return fmt.Sprintf("%q is not a bucket key (1w-4w, this-jan, last-dec ...)", fe.Value())
	case "oneof":
		return fmt.Sprintf("%q must be one of: %s", fe.Value(), fe.Param())
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	}
	return "failed " + fe.Tag()
}
