package chat

import (
	"context"
	"fmt"

	"github.com/Aloklok/rss-daily-sub001/internal/llm"
	"github.com/Aloklok/rss-daily-sub001/internal/logger"
	"github.com/Aloklok/rss-daily-sub001/internal/retriever"
	"github.com/Aloklok/rss-daily-sub001/internal/router"
)

func NewService(rtr IntentClassifier, ret Retriever, providers ProviderResolver, templates TemplateStore) *Service {
	return &Service{
		router:    rtr,
		retriever: ret,
		providers: providers,
		templates: templates,
	}
}

// Orchestrate runs one full chat turn: route the query, retrieve evidence
// when the intent calls for it, assemble the provider prompt, and stream the
// normalized answer. Retrieval and provider-stream failures propagate;
// classification and rerank failures are absorbed downstream.
func (s *Service) Orchestrate(ctx context.Context, req Request) (*Result, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	latest := req.Messages[len(req.Messages)-1]
	if latest.Role != llm.RoleUser {
		return nil, fmt.Errorf("last message must have role %q, got %q", llm.RoleUser, latest.Role)
	}

	query := latest.Content
	history := req.Messages[:len(req.Messages)-1]

	// exactly one intent per call; it gates both retrieval and the prompt
	// template
	var decision router.Result

	if req.SmallTalkMode {
		decision = router.Result{Intent: router.IntentDirect, Reasoning: "Small talk mode"}
	} else {
		decision = s.router.Classify(ctx, query, history)
	}

	provider, bareModel, err := s.providers.ProviderFor(req.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve provider: %w", err)
	}

	// retrieval waits for the routing decision: DIRECT must skip it entirely
	var articles []retriever.Article

	if decision.Intent == router.IntentRAGLocal {
		searchQuery := query
		if decision.ModifiedQuery != "" {
			searchQuery = decision.ModifiedQuery
		}

		articles, err = s.retriever.Retrieve(ctx, searchQuery, llm.ContextBudget(bareModel))
		if err != nil {
			return nil, fmt.Errorf("retrieval failed: %w", err)
		}
	}

	systemPrompt, messages := s.assembleMessages(ctx, decision.Intent, history, query, articles)

	raw, err := provider.Stream(ctx, messages, llm.Options{
		Model:        bareModel,
		SystemPrompt: systemPrompt,
		MaxTokens:    8192,
		Temperature:  0.7,
		EnableSearch: effectiveSearchEnabled(decision.Intent, req.UseSearch),
	})
	if err != nil {
		return nil, fmt.Errorf("provider stream failed: %w", err)
	}

	logger.Debug("chat turn routed",
		"intent", decision.Intent,
		"reasoning", decision.Reasoning,
		"articles", len(articles),
		"model", bareModel,
	)

	return &Result{
		Stream:        llm.NormalizeStream(raw),
		Intent:        decision.Intent,
		FinalArticles: articles,
		Model:         bareModel,
		IsProviderB:   llm.IsOpenAIStyle(bareModel),
	}, nil
}
