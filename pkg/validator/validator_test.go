package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		username  string
		fullName  string
		password  string
		wantField string
	}{
		{"valid", "alice@example.com", "alice", "Alice", "Sup3rsecret", ""},
		{"missing email", "", "alice", "Alice", "Sup3rsecret", "email"},
		{"bad email", "not-an-email", "alice", "Alice", "Sup3rsecret", "email"},
		{"missing username", "alice@example.com", "", "Alice", "Sup3rsecret", "username"},
		{"short username", "alice@example.com", "al", "Alice", "Sup3rsecret", "username"},
		{"long username", "alice@example.com", strings.Repeat("a", 21), "Alice", "Sup3rsecret", "username"},
		{"bad username chars", "alice@example.com", "alice!", "Alice", "Sup3rsecret", "username"},
		{"missing name", "alice@example.com", "alice", "", "Sup3rsecret", "name"},
		{"short password", "alice@example.com", "alice", "Alice", "Ab1", "password"},
		{"no uppercase", "alice@example.com", "alice", "Alice", "sup3rsecret", "password"},
		{"no digit", "alice@example.com", "alice", "Alice", "Supersecret", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegister(tt.email, tt.username, tt.fullName, tt.password)
			if tt.wantField == "" {
				assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
			} else {
				assert.Contains(t, errs, tt.wantField)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	assert.False(t, ValidateLogin("alice@example.com", "anything").HasErrors())
	assert.Contains(t, ValidateLogin("", "anything"), "email")
	assert.Contains(t, ValidateLogin("alice@example.com", ""), "password")
}

func TestValidateProfile(t *testing.T) {
	assert.False(t, ValidateProfile("Alice", "short bio").HasErrors())
	assert.Contains(t, ValidateProfile("", ""), "name")
	assert.Contains(t, ValidateProfile("Alice", strings.Repeat("x", maxBioLen+1)), "bio")
}

func TestValidatePost(t *testing.T) {
	assert.False(t, ValidatePost("a sunset").HasErrors())
	assert.Contains(t, ValidatePost("   "), "caption")
	assert.Contains(t, ValidatePost(strings.Repeat("x", maxCaptionLen+1)), "caption")
}

func TestValidateComment(t *testing.T) {
	assert.False(t, ValidateComment("nice").HasErrors())
	assert.Contains(t, ValidateComment(""), "body")
	assert.Contains(t, ValidateComment(strings.Repeat("x", maxCommentLen+1)), "body")
}
