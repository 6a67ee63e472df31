package mock

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"biomimic/providers"
)

// Client ist ein deterministischer Offline-Provider für Entwicklung und Tests.
type Client struct {
	// Reply überschreibt die Antwort, wenn gesetzt.
	Reply string
	// Err wird statt einer Antwort zurückgegeben, wenn gesetzt.
	Err error

	mu       sync.Mutex
	requests []providers.CompletionRequest
}

// maxRecorded begrenzt den Verlauf, damit der Mock im Dauerbetrieb nicht wächst.
const maxRecorded = 32

// New erstellt einen Mock-Provider.
func New() *Client { return &Client{} }

// Name gibt den Namen des Providers zurück.
func (c *Client) Name() string { return "mock" }

func (c *Client) record(req providers.CompletionRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.requests) >= maxRecorded {
		c.requests = append(c.requests[:0], c.requests[1:]...)
	}
	c.requests = append(c.requests, req)
}

// Requests liefert eine Kopie der zuletzt empfangenen Anfragen, älteste zuerst.
func (c *Client) Requests() []providers.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]providers.CompletionRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

// Complete beantwortet Lösungs-Prompts mit gültigem JSON, alles andere mit einem festen Text.
func (c *Client) Complete(_ context.Context, req providers.CompletionRequest) (string, error) {
	c.record(req)
	if c.Err != nil {
		return "", c.Err
	}
	if c.Reply != "" {
		return c.Reply, nil
	}

	last := ""
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Content
	}
	if strings.Contains(last, `"biomimicryPrinciple"`) {
		b, _ := json.Marshal(map[string]any{
			"title":               "Termite-Mound Passive Ventilation",
			"description":         "Use stack-effect channels modelled on termite mounds to move air without fans.",
			"natureInspiration":   "Macrotermes termites",
			"biomimicryPrinciple": "Convective airflow driven by temperature gradients in porous structures",
			"implementation":      "Integrate vertical thermal chimneys and porous facades into the building envelope.",
			"benefits":            []string{"Lower cooling energy", "Fewer moving parts", "Stable indoor temperature"},
		})
		return string(b), nil
	}
	return "Nature has solved this before: look at how lotus leaves shed water and dirt (mock response).", nil
}
