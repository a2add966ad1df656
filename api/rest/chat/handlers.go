package chat

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	chatcore "github.com/Aloklok/rss-daily-sub001/internal/chat"
	"github.com/Aloklok/rss-daily-sub001/internal/errors"
	"github.com/Aloklok/rss-daily-sub001/internal/llm"
	"github.com/Aloklok/rss-daily-sub001/internal/logger"
	"github.com/gin-gonic/gin"
)

// Handler runs one chat turn and streams the answer back as SSE frames.
// Frame order: one meta frame, zero or more delta frames, then either an
// error frame or the [DONE] sentinel.
func Handler(chatService *chatcore.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		messages := make([]llm.Message, len(req.Messages))
		for i, m := range req.Messages {
			messages[i] = llm.Message{Role: m.Role, Content: m.Content}
		}

		useSearch := true
		if req.UseSearch != nil {
			useSearch = *req.UseSearch
		}

		result, err := chatService.Orchestrate(c.Request.Context(), chatcore.Request{
			Messages:      messages,
			UseSearch:     useSearch,
			Model:         req.Model,
			SmallTalkMode: req.SmallTalk,
		})
		if err != nil {
			var apiErr *llm.APIError
			if stderrors.As(err, &apiErr) {
				errors.UpstreamError(c, "Model provider request failed", err)
				return
			}

			errors.InternalError(c, "Failed to process chat turn", err)
			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)

		writeEvent(c, metaEvent{
			Type:        "meta",
			Intent:      string(result.Intent),
			Model:       result.Model,
			IsProviderB: result.IsProviderB,
			Articles:    result.FinalArticles,
		})

		for chunk := range result.Stream {
			if chunk.Err != nil {
				logger.ErrorErr(chunk.Err, "chat stream aborted", "model", result.Model)
				writeEvent(c, errorEvent{Type: "error", Message: "stream interrupted"})
				return
			}

			writeEvent(c, deltaEvent{Type: "delta", Text: chunk.Text})
		}

		fmt.Fprint(c.Writer, "data: [DONE]\n\n")
		c.Writer.Flush()
	}
}

func writeEvent(c *gin.Context, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.ErrorErr(err, "failed to marshal SSE event")
		return
	}

	fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
	c.Writer.Flush()
}
