package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type createSessionLike struct {
	Problem    string `validate:"required"`
	Difficulty string `validate:"required,oneof=easy medium hard"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     createSessionLike
		wantErr bool
		wantMsg string
	}{
		{
			name: "valid",
			req:  createSessionLike{Problem: "Two Sum", Difficulty: "easy"},
		},
		{
			name:    "missing problem",
			req:     createSessionLike{Difficulty: "easy"},
			wantErr: true,
			wantMsg: "Invalid or missing fields: Problem",
		},
		{
			name:    "bad difficulty",
			req:     createSessionLike{Problem: "Two Sum", Difficulty: "extreme"},
			wantErr: true,
			wantMsg: "Invalid or missing fields: Difficulty",
		},
		{
			name:    "everything missing",
			req:     createSessionLike{},
			wantErr: true,
			wantMsg: "Invalid or missing fields: Problem, Difficulty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			apiErr, ok := err.(*APIError)
			assert.True(t, ok)
			assert.Equal(t, 400, apiErr.Code)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}
