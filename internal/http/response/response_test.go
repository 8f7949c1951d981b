package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestStatusOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := StatusOKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestOK(t *testing.T) {
	resp := OK()

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}

	v := validator.New()
	ts := TestStruct{
		Email:    "not-an-email",
		Password: "short",
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.NotEmpty(t, resp.Error)

	errMsg := resp.Error
	assert.Contains(t, errMsg, "field Email must be a valid email address")
	assert.Contains(t, errMsg, "field Password is too short")
}

func TestValidationErrorRequired(t *testing.T) {
	type TestStruct struct {
		Title string `validate:"required"`
	}

	v := validator.New()
	ts := TestStruct{}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Title is a required field")
}
