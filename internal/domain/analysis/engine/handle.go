package engine

import (
	"regexp"
	"strings"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

var (
	profileURLPattern = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|mobile\.)?(?:twitter|x)\.com/(?:#!/)?@?([^/?\s#]+)`)
	bareHandlePattern = regexp.MustCompile(`^@?([A-Za-z0-9_]{1,15})$`)
)

// ExtractHandle resolves a human-entered profile reference (a profile URL,
// "@handle" or a bare handle) to the canonical handle.
func ExtractHandle(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", entity.ErrInvalidProfileReference
	}

	if m := profileURLPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if m := bareHandlePattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}

	return "", entity.ErrInvalidProfileReference
}
