package answer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

const searchPayload = `{
  "response": {
    "answer": "<p>Use the <b>Forgot password</b> link.</p>",
    "answer_payload": {
      "center_panel": {
        "data": [
          {"snippet_content": [
            {"sources": [{"title": "Employee-Handbook.pdf"}, {"title": "IT Guide"}]},
            {"sources": [{"title": "Employee-Handbook.pdf"}, {"title": ""}]}
          ]},
          {"snippet_content": [{"sources": [{"title": "Security FAQ"}]}]},
          {"other": true}
        ]
      }
    }
  }
}`

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		payload    any
		wantAnswer string
		wantTitles []string
	}{
		{
			name:       "raw json with titles",
			payload:    json.RawMessage(searchPayload),
			wantAnswer: "<p>Use the <b>Forgot password</b> link.</p>",
			wantTitles: []string{"Employee-Handbook.pdf", "IT Guide", "Security FAQ"},
		},
		{
			name:       "top level answer",
			payload:    map[string]any{"answer": "42"},
			wantAnswer: "42",
		},
		{
			name:       "no answer",
			payload:    map[string]any{"results": []any{}},
			wantAnswer: NoAnswer,
		},
		{
			name:       "plain string payload",
			payload:    "gateway says hi",
			wantAnswer: NoAnswer,
		},
		{
			name:       "nil payload",
			payload:    nil,
			wantAnswer: NoAnswer,
		},
		{
			name:       "broken raw json",
			payload:    json.RawMessage(`{"answer":`),
			wantAnswer: NoAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.payload)
			assert.Equal(t, tt.wantAnswer, got.Answer)
			assert.Equal(t, tt.wantTitles, got.Titles)
		})
	}
}

func TestTitlesString(t *testing.T) {
	assert.Equal(t, NoTitles, Result{}.TitlesString())
	assert.Equal(t, "a; b", Result{Titles: []string{"a", "b"}}.TitlesString())
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "  just   text \n\n more ", "just text more"},
		{"fragment", "<p>Use the <b>Forgot password</b> link.</p><ul><li>one</li><li>two</li></ul>", "Use the Forgot password link. one two"},
		{"script dropped", "<div>visible</div><script>var x = 1;</script>", "visible"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.input))
		})
	}
}

func TestPlainTextDocument(t *testing.T) {
	doc := `<html><head><title>Portal</title><style>p{}</style></head>
<body><nav>Home | About</nav><article><h1>Reset</h1>
<p>To reset your password open the account settings page and choose the reset option.
You will receive an email with a link that stays valid for twenty four hours.</p>
</article></body></html>`

	got := PlainText(doc)
	assert.Contains(t, got, "To reset your password")
	assert.NotContains(t, got, "<p>")
	assert.NotContains(t, got, "p{}")
}

func TestCompareSources(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		titles   []string
		want     string
	}{
		{"no expected", "", []string{"x"}, SourceUnknown},
		{"expected is placeholder", NoTitles, []string{"x"}, SourceUnknown},
		{"no titles", "Handbook.pdf", nil, SourceMiss},
		{"keyword pair", "Employee-Handbook.pdf (pp. 5-7)", []string{"Employee Handbook 2024"}, SourceMatch},
		{"direct filename", "security-faq.pdf (p. 3)", []string{"Internal Security-FAQ v2"}, SourceMatch},
		{"significant part", "Acme-Benefits-Guide.pdf", []string{"Benefits overview"}, SourceMatch},
		{"short parts ignored", "HR-IT.pdf", []string{"hr policies", "it policies"}, SourceMiss},
		{"unrelated", "Employee-Handbook.pdf", []string{"Travel Policy"}, SourceMiss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareSources(tt.expected, tt.titles))
		})
	}
}

func TestExpectedSource(t *testing.T) {
	row := map[string]any{"Query": "q", "Source_URL": " https://docs.example.com/a ", "notes": "x"}
	assert.Equal(t, "https://docs.example.com/a", ExpectedSource(row, ""))
	assert.Equal(t, "x", ExpectedSource(row, "notes"))
	assert.Equal(t, "", ExpectedSource(map[string]any{"query": "q"}, "source"))
}

func TestLanguageDetector(t *testing.T) {
	d := NewLanguageDetector([]string{"english", "Spanish", "Klingon"})

	assert.Equal(t, "en", d.Detect("How do I reset the password for my workspace account?"))
	assert.Equal(t, "es", d.Detect("¿Cómo puedo restablecer la contraseña de mi cuenta de trabajo?"))
	assert.Equal(t, "", d.Detect("   "))

	de := NewLanguageDetector([]string{"English", "German"})
	assert.Equal(t, "de", de.Detect("Öffnen Sie die Kontoeinstellungen und wählen Sie die Option zum Zurücksetzen des Passworts."))
	assert.Equal(t, "en", de.Detect("Open the account settings page and choose the option to reset your password."))

	var nilDetector *LanguageDetector
	assert.Equal(t, "", nilDetector.Detect("hello there"))
}
