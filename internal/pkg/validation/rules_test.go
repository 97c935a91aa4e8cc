package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type named struct {
	Name string `binding:"required,notblank"`
}

func TestNotBlank(t *testing.T) {
	RegisterBindingRules()
	RegisterBindingRules()

	assert.NoError(t, binding.Validator.ValidateStruct(&named{Name: "IP-11"}))
	assert.Error(t, binding.Validator.ValidateStruct(&named{Name: " \t"}))
	assert.Error(t, binding.Validator.ValidateStruct(&named{}))
}
