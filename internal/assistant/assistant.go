// Package assistant maintains the in-app help conversation: one chat session
// per application lifetime against the generative backend, with a fixed
// persona instruction. Without a backend credential it degrades to a canned
// acknowledgement, same contract as the content generation mock.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"swiftsell/internal/config"
	"swiftsell/internal/listing"
	"swiftsell/internal/logging"
)

const systemInstruction = "You are a friendly and helpful AI assistant for the 'SwiftSell AI' app. " +
	"Your purpose is to guide users on how to operate the application. " +
	"Keep your answers concise and easy to understand. The user is on a mobile device."

// ErrEmptyHistory is returned when Respond is called with no messages.
var ErrEmptyHistory = errors.New("assistant: conversation history is empty")

// Client answers user questions against the running conversation.
type Client interface {
	// Respond sends the most recent user message in history against the
	// session (created lazily on first call) and returns the reply text.
	// Appending the reply to the transcript is the caller's job.
	Respond(ctx context.Context, history []listing.ChatMessage) (string, error)
}

// NewClient returns the live assistant, or the mock when no backend
// credential is configured.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	if cfg.Credentials.GeminiAPIKey == "" {
		logging.Assistant("No backend credential configured; using mock assistant")
		return NewMockClient(), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Credentials.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiAssistant{client: client, model: cfg.Gen.ChatModel}, nil
}

// GeminiAssistant implements Client over a genai chat session. The session is
// process-lifetime state with no explicit teardown.
type GeminiAssistant struct {
	client *genai.Client
	model  string

	mu      sync.Mutex
	session *genai.Chat
}

// Respond sends the last user message on the shared session.
func (a *GeminiAssistant) Respond(ctx context.Context, history []listing.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", ErrEmptyHistory
	}
	last := history[len(history)-1]

	a.mu.Lock()
	if a.session == nil {
		session, err := a.client.Chats.Create(ctx, a.model, &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.4),
			TopP:              genai.Ptr[float32](0.8),
			TopK:              genai.Ptr[float32](40),
		}, nil)
		if err != nil {
			a.mu.Unlock()
			return "", fmt.Errorf("failed to create chat session: %w", err)
		}
		a.session = session
		logging.Assistant("Chat session created (model=%s)", a.model)
	}
	session := a.session
	a.mu.Unlock()

	resp, err := session.SendMessage(ctx, genai.Part{Text: last.Content})
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	return resp.Text(), nil
}

// MockClient returns a canned acknowledgement referencing the user's last
// message, keeping the help surface alive in demo mode.
type MockClient struct{}

// NewMockClient returns the deterministic mock assistant.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Respond returns the canned reply.
func (m *MockClient) Respond(ctx context.Context, history []listing.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", ErrEmptyHistory
	}
	last := history[len(history)-1]
	reference := ""
	if last.Content != "" {
		reference = fmt.Sprintf("Regarding %q, ", last.Content)
	}
	return fmt.Sprintf("Thanks for your question! I'm here to help you with SwiftSell AI. %s"+
		"I'd be happy to assist you with listing items, pricing strategies, and marketplace optimization. "+
		"However, I'm currently running in demo mode. Please configure your API keys for full functionality.",
		reference), nil
}
