package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Supported lists the transcription languages offered by the editor, in menu
// order.
var Supported = []string{"en", "es", "fr", "de", "it", "ja", "ko", "zh", "ru", "ar", "pt"}

var supportedSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Supported))
	for _, code := range Supported {
		set[code] = struct{}{}
	}
	return set
}()

// Normalize lowercases and validates a language selector, returning the
// canonical two-letter code sent to the transcription backend.
func Normalize(code string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" {
		return "", fmt.Errorf("language code must be set")
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("unrecognized language %q", code)
	}
	base, _ := tag.Base()
	normalized := base.String()
	if _, ok := supportedSet[normalized]; !ok {
		return "", fmt.Errorf("language %q is not supported for transcription", code)
	}
	return normalized, nil
}

// DisplayName returns a human-readable English name for a language code.
// Unknown codes are echoed back uppercased.
func DisplayName(code string) string {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" {
		return "Unknown"
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return strings.ToUpper(trimmed)
	}
	return name
}
