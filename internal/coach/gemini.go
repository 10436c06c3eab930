// ABOUTME: Gemini-backed Generator for the coach persona.
// ABOUTME: Replays conversation history into a chat session and sends the query.
package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/fit/internal/models"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// SystemInstruction sets up the coach persona.
const SystemInstruction = `You are "Faisal", the elite personal trainer behind "FitWithFaisal".
Your mottos are "Train. Transform. Thrive." and "Stronger Every Day".
Your tone is high-energy, motivating, concise, and professional.
You help users build habits, track workouts, and understand fitness concepts.
Keep answers under 200 words unless asked for a detailed plan.
Format your response with Markdown (lists, bold text) for readability.
If asked for a workout plan, provide a structured list with exercises, sets, and reps.`

// ErrMissingAPIKey is returned when no Gemini credential is available.
var ErrMissingAPIKey = errors.New("gemini API key is not set")

// GeminiGenerator sends each query through a fresh Gemini chat session.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator authenticated with apiKey.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.model
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, query string, history []models.Turn) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: textContent("user", SystemInstruction),
	}

	chat, err := g.client.Chats.Create(ctx, g.model, cfg, historyContents(history))
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: query})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return resp.Text(), nil
}

// historyContents maps turns onto Gemini's two roles; anything that is
// not the user is the model.
func historyContents(history []models.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, h := range history {
		role := "model"
		if h.Role == models.RoleUser {
			role = "user"
		}
		contents = append(contents, textContent(role, h.Text))
	}
	return contents
}

func textContent(role, text string) *genai.Content {
	return &genai.Content{
		Role:  role,
		Parts: []*genai.Part{{Text: text}},
	}
}

// NewAdvisorFromKey builds the production advisor. Without a usable key
// it returns an advisor that always answers with FallbackReply.
func NewAdvisorFromKey(ctx context.Context, apiKey, model string, opts ...AdvisorOption) Advisor {
	gen, err := NewGeminiGenerator(ctx, apiKey, model)
	if err != nil {
		return Unavailable(err, opts...)
	}
	return NewAdvisor(gen, opts...)
}
