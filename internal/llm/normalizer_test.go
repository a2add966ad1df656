package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectChunks(t *testing.T, in <-chan StreamChunk) ([]string, error) {
	t.Helper()

	var texts []string

	for chunk := range in {
		if chunk.Err != nil {
			return texts, chunk.Err
		}

		texts = append(texts, chunk.Text)
	}

	return texts, nil
}

func feedEvents(events ...RawEvent) <-chan RawEvent {
	in := make(chan RawEvent, len(events))
	for _, event := range events {
		in <- event
	}
	close(in)

	return in
}

func textEvents(texts ...string) []RawEvent {
	events := make([]RawEvent, len(texts))
	for i, text := range texts {
		events[i] = RawEvent{Text: text}
	}

	return events
}

func TestNormalizeStreamStripsReasoningAcrossChunkBoundaries(t *testing.T) {
	// the close marker is split across deltas and must still be detected
	in := feedEvents(textEvents("<thi", "nk>reasoning</thi", "nk>hello ", "world")...)

	texts, err := collectChunks(t, NormalizeStream(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"hello ", "world"}, texts)
}

func TestNormalizeStreamPassthroughWithoutMarker(t *testing.T) {
	in := feedEvents(textEvents("hello ", "world")...)

	texts, err := collectChunks(t, NormalizeStream(in))
	require.NoError(t, err)

	// deltas before a marker buffer until EOF, then flush as one chunk
	assert.Equal(t, []string{"hello world"}, texts)
}

func TestNormalizeStreamConcatenationInvariant(t *testing.T) {
	tests := []struct {
		name     string
		deltas   []string
		expected string
	}{
		{
			name:     "marker and answer in one delta",
			deltas:   []string{"<think>plan</think>answer"},
			expected: "answer",
		},
		{
			name:     "marker alone then answer deltas",
			deltas:   []string{"<think>plan</think>", "an", "swer"},
			expected: "answer",
		},
		{
			name:     "no reasoning at all",
			deltas:   []string{"an", "swer"},
			expected: "answer",
		},
		{
			name:     "unterminated reasoning flushes at EOF",
			deltas:   []string{"<think>never", " closed"},
			expected: "<think>never closed",
		},
		{
			name:     "second marker is answer text",
			deltas:   []string{"<think>a</think>", "first</think>second"},
			expected: "first</think>second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := feedEvents(textEvents(tt.deltas...)...)

			texts, err := collectChunks(t, NormalizeStream(in))
			require.NoError(t, err)

			var joined string
			for _, text := range texts {
				joined += text
			}

			assert.Equal(t, tt.expected, joined)
		})
	}
}

func TestNormalizeStreamSkipsToolCallsAndEmptyDeltas(t *testing.T) {
	in := feedEvents(
		RawEvent{ToolCall: true},
		RawEvent{Text: ""},
		RawEvent{Text: "answer"},
		RawEvent{ToolCall: true},
	)

	texts, err := collectChunks(t, NormalizeStream(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"answer"}, texts)
}

func TestNormalizeStreamPropagatesErrorAsTerminalChunk(t *testing.T) {
	streamErr := fmt.Errorf("connection reset")

	in := feedEvents(
		RawEvent{Text: "<think>x</think>partial "},
		RawEvent{Err: streamErr},
		RawEvent{Text: "never delivered"},
	)

	texts, err := collectChunks(t, NormalizeStream(in))
	require.ErrorIs(t, err, streamErr)
	assert.Equal(t, []string{"partial "}, texts)
}

func TestNormalizeStreamEmptyInput(t *testing.T) {
	texts, err := collectChunks(t, NormalizeStream(feedEvents()))
	require.NoError(t, err)
	assert.Empty(t, texts)
}
