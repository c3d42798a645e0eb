// Package listing defines the core data model shared by the generation,
// workflow, and marketplace layers: the draft listing produced from item
// photos, the grounding citations attached to its price, and the assistant
// conversation transcript.
package listing

import "strconv"

// ItemData is a draft marketplace listing. It is produced by the content
// generation client, edited by the user during review, and consumed at
// listing time. It is never persisted beyond the active session.
type ItemData struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Source is a single grounding citation attached to a price suggestion.
// Either field may be empty depending on what the backend returned.
type Source struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "model"
)

// ChatMessage is one turn of the assistant conversation. Transcripts are
// append-only and ordered.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ParsePrice converts user-edited price text to a number. Anything that does
// not parse cleanly is treated as "unknown" and coerced to zero; the price is
// never negative.
func ParsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
