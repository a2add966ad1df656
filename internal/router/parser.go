package router

import (
	"encoding/json"
	"fmt"

	"github.com/Aloklok/rss-daily-sub001/internal/llm"
)

// parseClassification defensively extracts a routing decision from raw model
// output. Three independent stages: strip any reasoning block, scan for the
// first balanced-brace JSON object (the model may prepend commentary or wrap
// output in a code fence), then structured parse with enum validation.
func parseClassification(raw string) (Result, error) {
	jsonStr, err := llm.ExtractJSONObject(llm.StripReasoning(raw))
	if err != nil {
		return Result{}, fmt.Errorf("classification response rejected: %w", err)
	}

	var payload struct {
		Intent        string `json:"intent"`
		Reasoning     string `json:"reasoning"`
		ModifiedQuery string `json:"modified_query"`
	}

	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return Result{}, &llm.ParseError{Stage: "decode", Detail: err.Error()}
	}

	intent, err := ParseIntent(payload.Intent)
	if err != nil {
		return Result{}, &llm.ParseError{Stage: "validate", Detail: err.Error()}
	}

	return Result{
		Intent:        intent,
		Reasoning:     payload.Reasoning,
		ModifiedQuery: payload.ModifiedQuery,
	}, nil
}
