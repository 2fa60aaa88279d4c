package format

import (
	"strings"

	"github.com/bethropolis/inkwell/internal/dom"
	"golang.org/x/net/html"
)

type declaration struct {
	prop, value string
}

// style is an ordered list of inline CSS declarations.
type style []declaration

func parseStyle(s string) style {
	var out style
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		out = out.set(prop, value)
	}
	return out
}

func (s style) get(prop string) (string, bool) {
	for _, d := range s {
		if d.prop == prop {
			return d.value, true
		}
	}
	return "", false
}

// set replaces prop in place or appends it.
func (s style) set(prop, value string) style {
	for i, d := range s {
		if d.prop == prop {
			s[i].value = value
			return s
		}
	}
	return append(s, declaration{prop: prop, value: value})
}

func (s style) String() string {
	parts := make([]string, 0, len(s))
	for _, d := range s {
		parts = append(parts, d.prop+": "+d.value+";")
	}
	return strings.Join(parts, " ")
}

// AlignmentOf returns the text-align set inline on el, or "" when there is
// none or it is not one the toolbar offers.
func AlignmentOf(el *html.Node) Alignment {
	raw, ok := dom.Attr(el, "style")
	if !ok {
		return ""
	}
	v, _ := parseStyle(raw).get("text-align")
	switch a := Alignment(strings.ToLower(v)); a {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return a
	}
	return ""
}
