package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damione1/live-poll/internal/config"
	"github.com/damione1/live-poll/internal/security"
)

func TestValidateParticipantName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "Alice", "Alice", false},
		{"trimmed", "  Bob  ", "Bob", false},
		{"accents", "Zoë Brontë", "Zoë Brontë", false},
		{"apostrophe and hyphen", "O'Neil-Smith", "O'Neil-Smith", false},
		{"digits and dots", "j.doe_42", "j.doe_42", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"markup", "<b>Eve</b>", "", true},
		{"tab inside", "Ev\te", "", true},
		{"too long", strings.Repeat("a", config.MaxParticipantNameLength+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := security.ValidateParticipantName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("length counts characters, not bytes", func(t *testing.T) {
		name := strings.Repeat("é", config.MaxParticipantNameLength)
		_, err := security.ValidateParticipantName(name)
		assert.NoError(t, err)
	})
}

func TestValidateChatText(t *testing.T) {
	got, err := security.ValidateChatText("  <b>hi</b> ")
	require.NoError(t, err)
	assert.Equal(t, "<b>hi</b>", got)

	_, err = security.ValidateChatText(" \n ")
	assert.Error(t, err)

	_, err = security.ValidateChatText(strings.Repeat("x", config.MaxChatMessageLength+1))
	assert.Error(t, err)
}
