package gesture

import (
	"encoding/json"
	"strings"
)

// TemplatePayload is the serialized form of a quick-add template pill
// carried through a native drag. Duration is in minutes.
type TemplatePayload struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Duration int    `json:"duration"`
}

// Encode renders the payload as JSON for the drag data channel. A plain
// title string travels alongside as the text fallback.
func (p TemplatePayload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// DecodePayload parses drop data: JSON first, then a bare title as the
// plain-text fallback. It returns false for empty input.
func DecodePayload(raw []byte) (TemplatePayload, bool) {
	var p TemplatePayload
	if err := json.Unmarshal(raw, &p); err == nil && p.Title != "" {
		if p.Duration <= 0 {
			p.Duration = 60
		}
		return p, true
	}
	title := strings.TrimSpace(string(raw))
	if title == "" {
		return TemplatePayload{}, false
	}
	return TemplatePayload{Title: title, Duration: 60}, true
}
