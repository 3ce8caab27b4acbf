// Package answer pulls human-readable answers and cited titles out of API payloads.
package answer

import (
	"encoding/json"
	"strings"
)

const (
	NoAnswer = "No answer found in response"
	NoTitles = "No titles found"
)

// Result is what could be recovered from a payload.
type Result struct {
	Answer string
	Titles []string
}

// TitlesString joins titles with "; " or returns NoTitles.
func (r Result) TitlesString() string {
	if len(r.Titles) == 0 {
		return NoTitles
	}
	return strings.Join(r.Titles, "; ")
}

// Extract reads the answer from response.answer or a top-level answer field,
// and collects distinct titles from
// response.answer_payload.center_panel.data[].snippet_content[].sources[].title.
// Payloads of any other shape yield NoAnswer and no titles.
func Extract(payload any) Result {
	root, ok := normalize(payload).(map[string]any)
	if !ok {
		return Result{Answer: NoAnswer}
	}

	res := Result{Answer: NoAnswer}
	response, _ := root["response"].(map[string]any)
	if a, ok := response["answer"]; ok {
		res.Answer = stringify(a)
	} else if a, ok := root["answer"]; ok {
		res.Answer = stringify(a)
	}

	seen := make(map[string]bool)
	centerPanel := lookup(response, "answer_payload", "center_panel")
	for _, item := range list(centerPanel, "data") {
		for _, snippet := range list(item, "snippet_content") {
			for _, source := range list(snippet, "sources") {
				title, _ := lookup(source, "title").(string)
				title = strings.TrimSpace(title)
				if title == "" || seen[title] {
					continue
				}
				seen[title] = true
				res.Titles = append(res.Titles, title)
			}
		}
	}
	return res
}

// normalize decodes raw JSON forms into generic values.
func normalize(payload any) any {
	var raw []byte
	switch v := payload.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		return payload
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func lookup(v any, keys ...string) any {
	for _, k := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

func list(v any, key string) []any {
	items, _ := lookup(v, key).([]any)
	return items
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
