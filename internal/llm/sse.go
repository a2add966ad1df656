package llm

import "strings"

// sseDecoder reassembles Server-Sent-Events data payloads from raw reads.
// Network chunk boundaries do not align with event boundaries, so any
// trailing partial line is carried over to the next Feed call.
type sseDecoder struct {
	buffer string
}

// Feed consumes one raw read and returns the data payloads of every complete
// line it contained. Blank lines and non-data fields are ignored.
func (d *sseDecoder) Feed(p []byte) []string {
	d.buffer += string(p)

	var payloads []string

	for {
		line, rest, ok := strings.Cut(d.buffer, "\n")
		if !ok {
			break
		}

		d.buffer = rest
		line = strings.TrimSuffix(line, "\r")

		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}

		data = strings.TrimSpace(data)
		if data == "" {
			continue
		}

		payloads = append(payloads, data)
	}

	return payloads
}
