package validation_test

import (
	"errors"
	"testing"

	domainerrors "github.com/24061269-star/um-lost-and-found/internal/errors"
	"github.com/24061269-star/um-lost-and-found/internal/validation"
	"github.com/stretchr/testify/assert"
)

type createItemRequest struct {
	Title     string   `json:"title" validate:"required,max=140"`
	Kind      string   `json:"kind" validate:"required,oneof=lost found"`
	Location  string   `json:"location" validate:"required"`
	ImageURLs []string `json:"imageUrls" validate:"omitempty,dive,url"`
	Limit     int      `json:"limit" validate:"omitempty,gte=1,lte=50"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := createItemRequest{
		Title:     "Black wallet",
		Kind:      "lost",
		Location:  "Faculty of Engineering",
		ImageURLs: []string{"https://cdn.example.com/a.jpg"},
		Limit:     20,
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        createItemRequest
		wantErrMsg string
	}{
		{
			name:       "missing required field",
			req:        createItemRequest{Kind: "lost", Location: "library"},
			wantErrMsg: "title",
		},
		{
			name:       "kind outside the enum",
			req:        createItemRequest{Title: "Wallet", Kind: "misplaced", Location: "library"},
			wantErrMsg: "kind",
		},
		{
			name:       "title too long",
			req:        createItemRequest{Title: string(make([]byte, 141)), Kind: "lost", Location: "library"},
			wantErrMsg: "title",
		},
		{
			name:       "limit out of range",
			req:        createItemRequest{Title: "Wallet", Kind: "lost", Location: "library", Limit: 999},
			wantErrMsg: "limit",
		},
		{
			name:       "malformed image url",
			req:        createItemRequest{Title: "Wallet", Kind: "lost", Location: "library", ImageURLs: []string{"not a url"}},
			wantErrMsg: "imageUrls[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.True(t, errors.As(err, &domainErr)) {
				assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
				details, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok, "details should carry field errors") {
					assert.Contains(t, details, tt.wantErrMsg)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := createItemRequest{Kind: "lost", Location: "library"}

	err := v.Validate(req)
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	if assert.True(t, errors.As(err, &domainErr)) {
		details := domainErr.Details.(map[string]string)
		// Should use JSON tag name "title", not struct field name "Title"
		assert.Contains(t, details, "title")
		assert.NotContains(t, details, "Title")
	}
}
