package storage

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeFilename reduces an uploaded filename to a safe object key.
// The name is decomposed to ASCII, path separators become spaces, whitespace
// runs collapse to a single underscore, characters outside [A-Za-z0-9_.-] are
// dropped and leading or trailing dots and underscores are trimmed.
// The result may be empty.
func SanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var ascii strings.Builder
	ascii.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case r > unicode.MaxASCII:
			continue
		case r == '/' || r == '\\':
			ascii.WriteByte(' ')
		default:
			ascii.WriteRune(r)
		}
	}

	joined := strings.Join(strings.Fields(ascii.String()), "_")

	var out strings.Builder
	out.Grow(len(joined))
	for i := 0; i < len(joined); i++ {
		if isFilenameByte(joined[i]) {
			out.WriteByte(joined[i])
		}
	}

	return strings.Trim(out.String(), "._")
}

func isFilenameByte(b byte) bool {
	return b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' ||
		b == '_' || b == '.' || b == '-'
}
