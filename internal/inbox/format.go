package inbox

import (
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const previewLen = 100

var htmlPolicy = bluemonday.UGCPolicy()

// FormatReceived renders t relative to now: a clock time for today,
// "Yesterday", or a short date.
func FormatReceived(t, now time.Time) string {
	t = t.In(now.Location())
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return t.Format("15:04")
	}
	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if ty == yy && tm == ym && td == yd {
		return "Yesterday"
	}
	return t.Format("Jan 2")
}

func Preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLen {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewLen]) + "..."
}

// SanitizeHTML strips scripts, handlers and other unsafe markup from an email
// body.
func SanitizeHTML(body string) string {
	return htmlPolicy.Sanitize(body)
}
