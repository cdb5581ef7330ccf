package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type enquiryPayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=5"`
}

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(enquiryPayload{
		Name:  "Asha Verma",
		Email: "asha@example.com",
		Phone: "4471234567",
	})
	require.NoError(t, err)
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(enquiryPayload{Email: "not-an-email", Phone: "12"})
	require.Error(t, err)

	failures, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, failures, 3)

	fields := map[string]string{}
	for _, f := range failures {
		fields[f.Field] = f.Tag
	}
	require.Equal(t, "required", fields["name"])
	require.Equal(t, "email", fields["email"])
	require.Equal(t, "min", fields["phone"])
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "phone", Tag: "min", Param: "5"},
		{Field: "name", Tag: "required"},
	}
	require.Equal(t, "phone failed on min=5; name failed on required", errs.Error())
}
