package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aloklok/rss-daily-sub001/internal/llm"
	"github.com/Aloklok/rss-daily-sub001/internal/logger"
	"github.com/Aloklok/rss-daily-sub001/internal/retriever"
	"github.com/Aloklok/rss-daily-sub001/internal/router"
	"github.com/Aloklok/rss-daily-sub001/internal/storage"
)

// terse persona prompt for conversational turns; no corpus context, no
// citation instructions
const directSystemPrompt = `You are a sharp, friendly assistant for a daily news digest.
Answer conversational questions briefly and naturally, in the user's language.
Do not invent news facts; if the user asks about events, suggest they ask about a topic so you can look it up.`

// fallback when the template store is unavailable
const defaultGroundedPrompt = `You are a news analyst answering from a corpus of summarized articles.

Rules:
- Treat the supplied article list as your primary evidence
- Cite sources using ONLY the bracketed index format [N], where N is the article's 1-based position in the context block
- Never use any other citation style (no links, no footnotes, no source names as citations)
- If the context does not cover the question, say so rather than guessing
- Answer in the user's language`

// groundedSystemPrompt loads the chat template, falling back to the built-in
// prompt so a template-store outage cannot fail the turn
func (s *Service) groundedSystemPrompt(ctx context.Context) string {
	template, err := s.templates.GetPromptTemplate(ctx, storage.TemplateChatDefault)
	if err != nil {
		logger.Warn("failed to load chat prompt template, using built-in default", "error", err)
		return defaultGroundedPrompt
	}

	return template
}

// buildContextBlock enumerates retrieved articles for the model. A turn with
// zero articles still gets the section, stating that nothing matched.
func buildContextBlock(articles []retriever.Article) string {
	if len(articles) == 0 {
		return "CONTEXT ARTICLES:\nNo matching articles were found in the local corpus for this query.\n"
	}

	var builder strings.Builder

	builder.WriteString("CONTEXT ARTICLES:\n")

	for i, article := range articles {
		builder.WriteString(fmt.Sprintf("\n[%d] %s\n", i+1, article.Title))
		builder.WriteString(fmt.Sprintf("Source: %s | Date: %s | Category: %s\n",
			article.SourceName, article.Published.Format("2006-01-02"), article.Category))

		if article.TLDR != "" {
			builder.WriteString(fmt.Sprintf("TLDR: %s\n", article.TLDR))
		}

		if article.Summary != "" {
			builder.WriteString(fmt.Sprintf("Summary: %s\n", article.Summary))
		}

		if article.Highlights != "" {
			builder.WriteString(fmt.Sprintf("Highlights: %s\n", article.Highlights))
		}

		if article.Critiques != "" {
			builder.WriteString(fmt.Sprintf("Critiques: %s\n", article.Critiques))
		}

		if article.MarketTake != "" {
			builder.WriteString(fmt.Sprintf("Market take: %s\n", article.MarketTake))
		}
	}

	return builder.String()
}

// assembleMessages builds the system prompt and provider message list for
// one turn. The intent that gated retrieval also picks the template, so the
// two can never diverge.
func (s *Service) assembleMessages(ctx context.Context, intent router.Intent, history []llm.Message, query string, articles []retriever.Article) (string, []llm.Message) {
	var systemPrompt, userTurn string

	switch intent {
	case router.IntentDirect:
		systemPrompt = directSystemPrompt
		userTurn = query
	case router.IntentRAGLocal, router.IntentSearchWeb:
		systemPrompt = s.groundedSystemPrompt(ctx)
		userTurn = buildContextBlock(articles) + "\nUser question: " + query
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userTurn})

	return systemPrompt, messages
}

// effectiveSearchEnabled derives the web-search tool setting from the
// intent: DIRECT forces it off, SEARCH_WEB forces it on, RAG_LOCAL respects
// the caller's preference.
func effectiveSearchEnabled(intent router.Intent, useSearch bool) bool {
	switch intent {
	case router.IntentDirect:
		return false
	case router.IntentSearchWeb:
		return true
	case router.IntentRAGLocal:
		return useSearch
	}

	return useSearch
}
