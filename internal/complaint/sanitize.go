package complaint

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag; complaint text is stored as plain text.
var textPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds how many layers of entity encoding are peeled.
const maxSanitizePasses = 4

// cleanText removes markup and surrounding whitespace. bluemonday escapes
// the text it keeps, so entities are decoded back to plain characters, and
// the result is sanitized again until it is stable so that entity-encoded
// tags cannot come back to life. Input that is still changing after
// maxSanitizePasses is stored in its escaped form.
func cleanText(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		out := html.UnescapeString(textPolicy.Sanitize(s))
		if out == s {
			return strings.TrimSpace(out)
		}
		s = out
	}
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

func cleanAttachments(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://") {
			out = append(out, u)
		}
	}
	return out
}
