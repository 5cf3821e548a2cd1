// Package extract turns message templates and their arguments into field sets.
//
// Templates use named holes: "Valid order: {userId} {email}". A hole may carry a capture hint
// ({@order}, {$order}), an alignment ({name,10}) or a format ({amount:F2}); only the name is used
// as the field name. "{{" and "}}" are literal braces.
package extract

import (
	"strings"
)

// segment is either literal text or a hole.
type segment struct {
	text string
	hole bool
	name string
}

// template is a parsed message template.
type template struct {
	segments []segment
	holes    []string
}

// parse never fails: an unterminated hole and everything after it is kept as literal text,
// and a hole with an empty name is literal too.
func parse(s string) template {
	var (
		t   template
		lit strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				lit.WriteString(s[i:])
				i = len(s)
				continue
			}
			raw := s[i : i+1+end+1]
			name := holeName(s[i+1 : i+1+end])
			if name == "" {
				lit.WriteString(raw)
			} else {
				flush()
				t.segments = append(t.segments, segment{text: raw, hole: true, name: name})
				t.holes = append(t.holes, name)
			}
			i += end + 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t
}

func holeName(body string) string {
	body = strings.TrimSpace(body)
	body = strings.TrimLeft(body, "@$")
	if i := strings.IndexAny(body, ",:"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}

// Placeholders returns the hole names of tmpl in order, including repeats.
func Placeholders(tmpl string) []string {
	return parse(tmpl).holes
}
