package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"swiftsell/internal/listing"
)

func TestMockRespondReferencesLastMessage(t *testing.T) {
	m := NewMockClient()
	history := []listing.ChatMessage{
		{Role: listing.RoleUser, Content: "What should I charge for a used bike?"},
		{Role: listing.RoleAssistant, Content: "Around $80 depending on condition."},
		{Role: listing.RoleUser, Content: "Is eBay or Mercari better for bikes?"},
	}

	reply, err := m.Respond(context.Background(), history)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(reply, "Is eBay or Mercari better for bikes?") {
		t.Errorf("reply %q does not reference the last user message", reply)
	}
}

func TestRespondEmptyHistory(t *testing.T) {
	m := NewMockClient()
	if _, err := m.Respond(context.Background(), nil); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("error = %v, want ErrEmptyHistory", err)
	}
}
