// Package ai generates promotional Telegram copy for deals with a
// generative model. A nil client is valid and produces no copy, so the
// notifier falls back to its template.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ofertasflash/dealbot/internal/deal"
)

// maxMessageLen caps the generated copy so it stays a short channel post
const maxMessageLen = 280

// Copywriter produces Spanish promotional messages for deals
type Copywriter struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewCopywriter creates a Gemini-backed copywriter. An empty API key
// returns a nil copywriter, which every method tolerates.
func NewCopywriter(ctx context.Context, apiKey, modelID string) (*Copywriter, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelID)
	model.SetTemperature(0.9)
	model.SetMaxOutputTokens(200)

	return &Copywriter{client: client, model: model}, nil
}

// Close releases the underlying client connection. Safe on a nil
// copywriter.
func (c *Copywriter) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// WriteMessage generates a short Spanish promo message for one deal.
// Returns "" without error when no client is configured.
func (c *Copywriter) WriteMessage(ctx context.Context, d deal.Deal) (string, error) {
	if c == nil || c.model == nil {
		return "", nil
	}

	prompt := fmt.Sprintf(`Eres el copywriter de un canal de Telegram de chollos en España.
Escribe un mensaje promocional en español para esta oferta:

Producto: %s
Precio actual: %.2f€
Precio original: %.2f€
Descuento: %d%%
Tienda: %s

Requisitos:
- Máximo 280 caracteres
- Tono urgente y cercano, con 2 o 3 emojis
- Incluye el precio, el ahorro y una llamada a la acción
- Sin hashtags ni enlaces, se añaden aparte
- Solo el texto del mensaje, nada más`,
		d.Title, d.CurrentPrice, d.OriginalPrice, d.Discount, d.ProviderName)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from gemini")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return clampMessage(string(txt)), nil
		}
	}

	return "", fmt.Errorf("no text part in response")
}

// clampMessage trims whitespace and stray quotes and enforces the
// length cap at a rune boundary
func clampMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	msg = strings.Trim(msg, `"`)

	runes := []rune(msg)
	if len(runes) > maxMessageLen {
		msg = strings.TrimSpace(string(runes[:maxMessageLen-1])) + "…"
	}
	return msg
}
