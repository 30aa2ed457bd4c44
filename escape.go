package jsonhl

import (
	"strings"
	"unicode/utf8"
)

const hex = "0123456789abcdef"

// replacements holds the escape sequence for every ASCII byte that needs one.
// Control characters default to the \u00XX form; the short forms win where
// they exist.
var replacements = func() [utf8.RuneSelf]string {
	var r [utf8.RuneSelf]string
	for i := 0; i < 0x20; i++ {
		r[i] = `\u00` + string(hex[i>>4]) + string(hex[i&0xf])
	}
	r['"'] = `\"`
	r['\\'] = `\\`
	r['\t'] = `\t`
	r['\b'] = `\b`
	r['\n'] = `\n`
	r['\r'] = `\r`
	return r
}()

// writeQuoted appends s to sb as a quoted JSON string literal. Unescaped runs
// are copied verbatim in a single left-to-right pass. U+2028 and U+2029 are
// escaped so the text stays safe inside script contexts, and invalid UTF-8
// is replaced with \ufffd.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	last := 0
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			if rep := replacements[b]; rep != "" {
				sb.WriteString(s[last:i])
				sb.WriteString(rep)
				last = i + 1
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		var rep string
		switch {
		case r == utf8.RuneError && size == 1:
			rep = `\ufffd`
		case r == '\u2028':
			rep = `\u2028`
		case r == '\u2029':
			rep = `\u2029`
		}
		if rep != "" {
			sb.WriteString(s[last:i])
			sb.WriteString(rep)
			last = i + size
		}
		i += size
	}
	sb.WriteString(s[last:])
	sb.WriteByte('"')
}
