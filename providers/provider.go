package providers

import "context"

// Rollen einer Chat-Nachricht im Sinne der Chat-Completions-API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message ist eine Nachricht im Gesprächsverlauf, der an das Modell geht.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest beschreibt eine einzelne Anfrage an ein Sprachmodell.
type CompletionRequest struct {
	Messages    []Message
	Temperature float64
	// MaxTokens <= 0 überlässt die Länge dem Provider.
	MaxTokens int
}

// Provider ist das Interface, das jeder LLM-Provider (z.B. OpenAI, Gemini) implementieren muss.
type Provider interface {
	// Complete schickt den Verlauf an das Modell und gibt den Text der ersten Antwort zurück.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "openai").
	Name() string
}
