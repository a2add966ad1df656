package chat

import "github.com/Aloklok/rss-daily-sub001/internal/retriever"

// conversation message
type Message struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// request payload for one chat turn
type Request struct {
	Messages  []Message `json:"messages" binding:"required,min=1"`
	Model     string    `json:"model" binding:"required"`
	UseSearch *bool     `json:"use_search"` // defaults to true
	SmallTalk bool      `json:"small_talk"`
}

// first SSE frame: turn metadata before any answer text
type metaEvent struct {
	Type        string              `json:"type"` // "meta"
	Intent      string              `json:"intent"`
	Model       string              `json:"model"`
	IsProviderB bool                `json:"is_provider_b"`
	Articles    []retriever.Article `json:"articles"`
}

// incremental answer text frame
type deltaEvent struct {
	Type string `json:"type"` // "delta"
	Text string `json:"text"`
}

// terminal error frame
type errorEvent struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}
