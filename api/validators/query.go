package validators

import (
	"net/http"
	"strings"
	"unicode"

	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
)

// CleanText trims input, drops control characters and caps it at maxRunes
// runes. A non-positive maxRunes disables the cap.
func CleanText(input string, maxRunes int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
	if maxRunes > 0 {
		if runes := []rune(cleaned); len(runes) > maxRunes {
			cleaned = string(runes[:maxRunes])
		}
	}
	return strings.TrimSpace(cleaned)
}

// ParseQuerySlug reads an optional lowercase slug such as a category filter.
func ParseQuerySlug(r *http.Request, key string, maxLen int) (string, error) {
	raw := CleanText(r.URL.Query().Get(key), 0)
	if raw == "" {
		return "", nil
	}
	if maxLen > 0 && len(raw) > maxLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter too long").WithDetails(map[string]any{"field": key, "max": maxLen})
	}
	for _, c := range raw {
		if !unicode.IsLower(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a slug").WithDetails(map[string]any{"field": key})
		}
	}
	return raw, nil
}
