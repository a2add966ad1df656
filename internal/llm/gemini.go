package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini wraps the native SDK client. Multi-turn state and grounded web
// search are handled by the API itself, so streaming needs no manual SSE
// parsing: the SDK exposes a stream iterator.
type Gemini struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{client: client}, nil
}

func (g *Gemini) Name() string {
	return "gemini"
}

// analytical and technical news content must never be blocked
func permissiveSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}

	settings := make([]*genai.SafetySetting, 0, len(categories))

	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}

	return settings
}

func (g *Gemini) generationConfig(opts Options) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SafetySettings: permissiveSafetySettings(),
	}

	if opts.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}

	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(opts.Temperature)
	}

	if opts.EnableSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	return cfg
}

// maps conversation turns to native chat history. System messages travel as
// SystemInstruction, never as history entries.
func toContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == RoleSystem || msg.Content == "" {
			continue
		}

		var role genai.Role = genai.RoleUser
		if msg.Role == RoleAssistant || msg.Role == "model" {
			role = genai.RoleModel
		}

		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	return contents
}

func (g *Gemini) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, opts.Model, toContents(messages), g.generationConfig(opts))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return resp.Text(), nil
}

func (g *Gemini) Stream(ctx context.Context, messages []Message, opts Options) (<-chan RawEvent, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	// prior turns become native chat history; only the latest user turn is
	// sent as the new message
	history := toContents(messages[:len(messages)-1])
	latest := messages[len(messages)-1]

	chat, err := g.client.Chats.Create(ctx, opts.Model, g.generationConfig(opts), history)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	events := make(chan RawEvent)

	go func() {
		defer close(events)

		for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: latest.Content}) {
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				select {
				case events <- RawEvent{Err: fmt.Errorf("gemini stream failed: %w", err)}:
				case <-ctx.Done():
				}

				return
			}

			if calls := resp.FunctionCalls(); len(calls) > 0 {
				select {
				case events <- RawEvent{ToolCall: true}:
				case <-ctx.Done():
					return
				}
			}

			if text := resp.Text(); text != "" {
				select {
				case events <- RawEvent{Text: text}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
