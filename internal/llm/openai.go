package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Aloklok/rss-daily-sub001/internal/logger"
	"golang.org/x/time/rate"
)

const (
	chatCompletionsPath = "/v1/chat/completions"
	doneSentinel        = "[DONE]"
)

// OpenAICompatible reaches any OpenAI-style chat/completions backend over raw
// HTTP. Streaming responses are parsed manually from SSE frames because these
// backends expose no native stream iterator.
type OpenAICompatible struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewOpenAICompatible(apiKey, baseURL string, httpClient *http.Client, limiter *rate.Limiter) *OpenAICompatible {
	return &OpenAICompatible{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

func (p *OpenAICompatible) Name() string {
	return "openai-compatible"
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamChunkPayload struct {
	Choices []struct {
		Delta struct {
			Content   string            `json:"content"`
			ToolCalls []json.RawMessage `json:"tool_calls"`
		} `json:"delta"`
	} `json:"choices"`
}

// normalizeMessages prepares a message list for an OpenAI-style backend:
// non-standard roles map to the nearest standard one, empty-content entries
// are dropped, and system messages are merged into the front of the first
// user message because these backends do not accept a dedicated system role
// reliably.
func normalizeMessages(messages []Message) []Message {
	var systems []string
	normalized := make([]Message, 0, len(messages))

	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}

		role := msg.Role
		switch role {
		case RoleSystem:
			systems = append(systems, msg.Content)
			continue
		case RoleUser, RoleAssistant:
		case "model":
			role = RoleAssistant
		default:
			role = RoleUser
		}

		normalized = append(normalized, Message{Role: role, Content: msg.Content})
	}

	if len(systems) > 0 {
		prefix := ""
		for _, s := range systems {
			prefix += s + "\n\n"
		}

		merged := false
		for i, msg := range normalized {
			if msg.Role == RoleUser {
				normalized[i].Content = prefix + msg.Content
				merged = true
				break
			}
		}

		if !merged {
			normalized = append([]Message{{Role: RoleUser, Content: prefix}}, normalized...)
		}
	}

	return normalized
}

func (p *OpenAICompatible) newRequest(ctx context.Context, body chatCompletionRequest) (*http.Request, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+chatCompletionsPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	return req, nil
}

func (p *OpenAICompatible) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	all := messages
	if opts.SystemPrompt != "" {
		all = append([]Message{{Role: RoleSystem, Content: opts.SystemPrompt}}, messages...)
	}

	req, err := p.newRequest(ctx, chatCompletionRequest{
		Model:       opts.Model,
		Messages:    normalizeMessages(all),
		Stream:      false,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", err
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck
		return "", &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var apiResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return apiResp.Choices[0].Message.Content, nil
}

func (p *OpenAICompatible) Stream(ctx context.Context, messages []Message, opts Options) (<-chan RawEvent, error) {
	all := messages
	if opts.SystemPrompt != "" {
		all = append([]Message{{Role: RoleSystem, Content: opts.SystemPrompt}}, messages...)
	}

	req, err := p.newRequest(ctx, chatCompletionRequest{
		Model:       opts.Model,
		Messages:    normalizeMessages(all),
		Stream:      true,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, err
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck
		resp.Body.Close()                //nolint:errcheck,gosec
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	events := make(chan RawEvent)

	go func() {
		defer close(events)
		defer resp.Body.Close() //nolint:errcheck

		decoder := &sseDecoder{}
		buf := make([]byte, 4096)

		for {
			n, readErr := resp.Body.Read(buf)

			if n > 0 {
				for _, payload := range decoder.Feed(buf[:n]) {
					if payload == doneSentinel {
						return
					}

					var chunk streamChunkPayload
					if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
						// one bad frame must not abort an otherwise healthy stream
						logger.Warn("skipping malformed stream payload", "error", err)
						continue
					}

					if len(chunk.Choices) == 0 {
						continue
					}

					delta := chunk.Choices[0].Delta

					if len(delta.ToolCalls) > 0 {
						select {
						case events <- RawEvent{ToolCall: true}:
						case <-ctx.Done():
							return
						}
					}

					if delta.Content != "" {
						select {
						case events <- RawEvent{Text: delta.Content}:
						case <-ctx.Done():
							return
						}
					}
				}
			}

			if readErr != nil {
				if readErr == io.EOF || ctx.Err() != nil {
					return
				}

				select {
				case events <- RawEvent{Err: fmt.Errorf("stream read failed: %w", readErr)}:
				case <-ctx.Done():
				}

				return
			}
		}
	}()

	return events, nil
}
