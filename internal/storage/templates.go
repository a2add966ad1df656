package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// named system-prompt templates. The briefing template belongs to the batch
// write path; only the chat template is consumed by the chat pipeline.
const (
	TemplateChatDefault = "chat_default"
	TemplateBriefing    = "briefing"
)

// GetPromptTemplate looks up a system-prompt template by name
func (c *Client) GetPromptTemplate(ctx context.Context, name string) (string, error) {
	var content string

	err := c.pool.QueryRow(ctx,
		`SELECT content FROM prompt_templates WHERE name = $1`, name,
	).Scan(&content)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("prompt template %q not found", name)
	}

	if err != nil {
		return "", fmt.Errorf("failed to load prompt template %q: %w", name, err)
	}

	return content, nil
}
