package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required"`
	Pass  string `json:"password" validate:"required"`
}

func TestValidationError(t *testing.T) {
	err := validator.New().Struct(sample{})
	require.Error(t, err)

	res := FromValidate(err)

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "field Email is a required field, field Pass is a required field", res.Error)
}

func TestFromValidate_UnknownError(t *testing.T) {
	res := FromValidate(errors.New("boom"))

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "invalid request", res.Error)
}

func TestMessage(t *testing.T) {
	res := Message("done")

	assert.Equal(t, Response{Status: StatusOK, Message: "done"}, res)
}
