// Package sanitize normalizes untrusted chat input before it is stored or
// fed to the response pipeline.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// Clean strips script/style bodies, removes remaining markup, collapses
// whitespace and caps the result at maxLen runes. A message that cleans to
// the empty string must be rejected by the caller.
func Clean(input string, maxLen int) string {
	s := scriptBlockRe.ReplaceAllString(input, "")
	s = styleBlockRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if maxLen > 0 {
		runes := []rune(s)
		if len(runes) > maxLen {
			s = string(runes[:maxLen])
		}
	}
	return s
}
