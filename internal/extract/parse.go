package extract

import (
	"encoding/json"
	"strings"

	"github.com/jgkarlin/renamepdf/internal/citation"
)

// ParseResponse decodes a model response into an Extraction. Markdown
// code fences around the JSON body are tolerated. Anything that does not
// decode into the expected shape marks the whole extraction malformed.
func ParseResponse(content string) citation.Extraction {
	content = stripCodeFence(content)

	var fields citation.Fields
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return citation.Extraction{Malformed: true}
	}
	return citation.Extraction{Fields: fields}
}

// stripCodeFence removes a surrounding ```json ... ``` fence, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
