package sanitizer

import (
	"strings"
	"unicode"
)

// MaxUserIDLength caps ids taken from headers. Anything longer is treated as
// garbage rather than truncated.
const MaxUserIDLength = 128

type strategy func(string) string

type pipeline []strategy

func (p pipeline) apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	userIDPipeline = pipeline{strings.TrimSpace, dropControl, rejectLong(MaxUserIDLength)}
	labelPipeline  = pipeline{trimAndNormalize, strings.ToLower}
)

// UserID normalizes an identity header value. Ids with inner whitespace are
// rejected since no issued id contains one.
func UserID(id string) string {
	id = userIDPipeline.apply(id)
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return ""
	}
	return id
}

func Label(label string) string {
	return labelPipeline.apply(label)
}

func dropControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func rejectLong(max int) strategy {
	return func(s string) string {
		if len(s) > max {
			return ""
		}
		return s
	}
}
