package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/signloop/constants"
)

// extractPlainText never fails. Each invalid byte becomes its own U+FFFD, the same
// count a WHATWG utf-8 decoder yields for stray bytes.
func extractPlainText(data []byte) Result {
	return Result{
		Text:       strings.TrimSpace(decodeUTF8(data)),
		Method:     constants.MethodDirectParse,
		Confidence: confidence(100),
		Pages:      1,
	}
}

func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		b.WriteRune(r) // RuneError for a bad byte, size 1
		data = data[size:]
	}
	return b.String()
}
