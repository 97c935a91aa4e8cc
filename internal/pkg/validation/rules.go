package validation

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Custom binding tags
const (
	// NotBlankTag rejects strings made only of whitespace
	NotBlankTag = "notblank"
)

var registerOnce sync.Once

// RegisterBindingRules adds the custom tags to gin's validator. Safe to call more than once.
func RegisterBindingRules() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation(NotBlankTag, notBlank)
	})
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
