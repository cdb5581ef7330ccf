package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/nriproperty/portal/pkg/errors"
	"github.com/nriproperty/portal/pkg/response"
	"github.com/nriproperty/portal/pkg/validator"
)

// bindAndValidate binds the JSON body into T and runs struct validation.
// On failure it writes the error response and returns false.
func bindAndValidate[T any](c *gin.Context, target *T) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		response.Error(c, apperrors.NewBadRequest("Invalid request payload"))
		return false
	}

	if err := validator.ValidateStruct(target); err != nil {
		var failures validator.ValidationErrors
		if errors.As(err, &failures) {
			response.Error(c, apperrors.NewBadRequest(failures.Error()))
			return false
		}
		response.Error(c, apperrors.NewBadRequest("Invalid request payload"))
		return false
	}

	return true
}
