package api

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"sitrus/server/config"
)

var registerOnce sync.Once

// RegisterValidators adds the catalog rules to gin's validator and makes
// error messages use JSON field names
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("property_type", func(fl validator.FieldLevel) bool {
			return config.IsValidType(fl.Field().String())
		})
		_ = v.RegisterValidation("property_status", func(fl validator.FieldLevel) bool {
			return config.IsValidStatus(fl.Field().String())
		})
	})
}
