package llm

import "strings"

// NormalizeStream filters a raw provider stream into display-ready chunks.
//
// Until a closing reasoning marker is seen, deltas accumulate in a buffer;
// once the marker appears, everything up to and including it is discarded
// exactly once and the remainder is emitted. After that point every non-empty
// delta passes through unchanged and in order. If the stream ends without a
// marker the whole buffer is flushed, so a model that never emits reasoning
// markers loses nothing. Tool-call fragments never reach the text stream.
func NormalizeStream(in <-chan RawEvent) <-chan StreamChunk {
	out := make(chan StreamChunk)

	go func() {
		defer close(out)

		finishedThinking := false
		var reasoning strings.Builder

		for event := range in {
			if event.Err != nil {
				out <- StreamChunk{Err: event.Err}
				return
			}

			if event.ToolCall || event.Text == "" {
				continue
			}

			if finishedThinking {
				out <- StreamChunk{Text: event.Text}
				continue
			}

			reasoning.WriteString(event.Text)

			accumulated := reasoning.String()
			if idx := strings.Index(accumulated, ReasoningCloseMarker); idx >= 0 {
				finishedThinking = true
				reasoning.Reset()

				if tail := accumulated[idx+len(ReasoningCloseMarker):]; tail != "" {
					out <- StreamChunk{Text: tail}
				}
			}
		}

		// stream ended with no closing marker: the buffer is the answer
		if !finishedThinking && reasoning.Len() > 0 {
			out <- StreamChunk{Text: reasoning.String()}
		}
	}()

	return out
}
