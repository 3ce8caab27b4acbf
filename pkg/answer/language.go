package answer

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// minConfidence is the share the top language needs before Detect reports it.
const minConfidence = 0.75

var defaultLanguages = []lingua.Language{lingua.English, lingua.Spanish, lingua.French, lingua.German}

// LanguageDetector labels answer text with an ISO 639-1 code.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a detector limited to the named languages
// (e.g. "English", "german"). Unknown names are ignored, and fewer than two
// known languages falls back to a default set.
func NewLanguageDetector(names []string) *LanguageDetector {
	var langs []lingua.Language
	for _, name := range names {
		for _, l := range lingua.AllLanguages() {
			if strings.EqualFold(l.String(), strings.TrimSpace(name)) {
				langs = append(langs, l)
				break
			}
		}
	}
	if len(langs) < 2 {
		langs = defaultLanguages
	}

	return &LanguageDetector{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(langs...).Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code, or "" when the text is empty
// or no language reaches minConfidence.
func (d *LanguageDetector) Detect(text string) string {
	if d == nil || strings.TrimSpace(text) == "" {
		return ""
	}
	values := d.detector.ComputeLanguageConfidenceValues(text)
	if len(values) == 0 || values[0].Value() < minConfidence {
		return ""
	}
	return strings.ToLower(values[0].Language().IsoCode639_1().String())
}
