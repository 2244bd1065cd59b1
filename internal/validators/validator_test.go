package validators

import (
	"testing"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{"complete signup", models.SignupRequest{FullName: "Alice", Email: "alice@example.com", Password: "pw", DOB: "1990-04-01"}, false},
		{"signup without email", models.SignupRequest{FullName: "Alice", Password: "pw"}, true},
		{"signup with bad dob", models.SignupRequest{FullName: "Alice", Email: "alice@example.com", Password: "pw", DOB: "01/04/1990"}, true},
		{"empty profile edit", models.UpdateProfileRequest{}, false},
		{"profile edit with bad email", models.UpdateProfileRequest{Email: "nope"}, true},
		{"post without title", models.CreatePostRequest{Content: "x"}, true},
		{"blank comment", models.CreateCommentRequest{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
