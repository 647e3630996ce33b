package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewParsingError("failed to open workbook", errors.New("no such file")),
			want: "[PARSING] failed to open workbook: no such file",
		},
		{
			name: "without cause",
			err:  NewValidationError("subject is empty"),
			want: "[VALIDATION] subject is empty",
		},
		{
			name: "not found",
			err:  NewNotFoundError("input directory"),
			want: "[NOT_FOUND] input directory not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("failed to write report", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewRenderError("chart render failed", nil).
		WithContext("page_title", "Biology 2023: Multiple Choice Items").
		WithContext("category", "item_chart")

	assert.Equal(t, "Biology 2023: Multiple Choice Items", err.Context["page_title"])
	assert.Equal(t, "item_chart", err.Context["category"])
}

func TestIsType(t *testing.T) {
	err := NewConfigError("bad config", nil)

	assert.True(t, IsType(err, ErrTypeConfig))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(errors.New("plain"), ErrTypeConfig))
}
