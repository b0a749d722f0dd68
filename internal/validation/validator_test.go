package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/validation"
)

type orderRequest struct {
	Title     string   `json:"title" validate:"notblank,max=200"`
	Tags      []string `json:"tags" validate:"max=20,dive,notblank,max=50"`
	PhotoPath string   `json:"photo_path,omitempty" validate:"omitempty,photofile"`
}

type tagRequest struct {
	Name  string  `json:"name" validate:"required"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func ptr(s string) *string { return &s }

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(orderRequest{
		Title:     "Pink Drink",
		Tags:      []string{"Sweet"},
		PhotoPath: "3f1c2b8e-0d7a-4b51-9a44-5f0f1e7c9b21.jpg",
	}))
	assert.NoError(t, v.Validate(tagRequest{Name: "Spicy", Color: ptr("#ff5733")}))
	assert.NoError(t, v.Validate(tagRequest{Name: "Spicy"}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{"blank title", orderRequest{Title: "   "}, "title", "is required"},
		{"blank tag", orderRequest{Title: "x", Tags: []string{" "}}, "tags[0]", "is required"},
		{"bad photo", orderRequest{Title: "x", PhotoPath: "../../etc/passwd"}, "photo_path", "photo"},
		{"bad color", tagRequest{Name: "x", Color: ptr("red")}, "color", "hex color"},
		{"missing name", tagRequest{}, "name", "is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details[tt.wantField], tt.wantMsg)
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(orderRequest{})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "title")
	assert.NotContains(t, err.Error(), "Title")
}
