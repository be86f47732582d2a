package lepton

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxQueryLen mirrors the upstream input limit; the service truncates or
// rejects anything longer.
const maxQueryLen = 1000

func validateQuery(query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", fmt.Errorf("%w: query must be a non-empty string", ErrValidation)
	}
	if utf8.RuneCountInString(trimmed) > maxQueryLen {
		return "", fmt.Errorf("%w: query exceeds %d characters", ErrValidation, maxQueryLen)
	}
	return trimmed, nil
}
