// Package format implements the toolbar commands: inline styles, block
// transforms, lists, alignment and links, applied against the selection.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned for tokens outside the command vocabulary.
var ErrUnknownCommand = errors.New("unknown command")

// Kind is the closed set of formatting commands.
type Kind int

const (
	KindNone Kind = iota
	Bold
	Italic
	Underline
	Strike
	Code
	Heading
	Quote
	OrderedList
	UnorderedList
	Align
	Link
)

// Alignment is a text-align value.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Command is one formatting command. Level is set for Heading (1..6) and
// Align for Align.
type Command struct {
	Kind  Kind
	Level int
	Align Alignment
}

var inlineTags = map[Kind]string{
	Bold:      "strong",
	Italic:    "em",
	Underline: "u",
	Strike:    "s",
	Code:      "code",
	Link:      "a",
}

var simpleTokens = map[string]Kind{
	"bold":      Bold,
	"italic":    Italic,
	"underline": Underline,
	"strike":    Strike,
	"code":      Code,
	"quote":     Quote,
	"quotes":    Quote,
	"ordered":   OrderedList,
	"unordered": UnorderedList,
	"link":      Link,
}

// ParseCommand maps a toolbar token to a Command.
func ParseCommand(token string) (Command, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if k, ok := simpleTokens[t]; ok {
		return Command{Kind: k}, nil
	}
	switch Alignment(t) {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return Command{Kind: Align, Align: Alignment(t)}, nil
	}
	if len(t) == 2 && t[0] == 'h' && t[1] >= '1' && t[1] <= '6' {
		return Command{Kind: Heading, Level: int(t[1] - '0')}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, token)
}

// Validate checks the command's payload.
func (c Command) Validate() error {
	switch c.Kind {
	case Heading:
		if c.Level < 1 || c.Level > 6 {
			return fmt.Errorf("%w: heading level %d", ErrUnknownCommand, c.Level)
		}
	case Align:
		switch c.Align {
		case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		default:
			return fmt.Errorf("%w: alignment %q", ErrUnknownCommand, c.Align)
		}
	case KindNone:
		return fmt.Errorf("%w: empty command", ErrUnknownCommand)
	default:
		if c.Kind > Link {
			return fmt.Errorf("%w: kind %d", ErrUnknownCommand, c.Kind)
		}
	}
	return nil
}

// IsInline reports whether the command wraps text in an inline element.
func (c Command) IsInline() bool {
	_, ok := inlineTags[c.Kind]
	return ok && c.Kind != Link
}

// Tag is the element the command produces ("" for Align).
func (c Command) Tag() string {
	if t, ok := inlineTags[c.Kind]; ok {
		return t
	}
	switch c.Kind {
	case Heading:
		return fmt.Sprintf("h%d", c.Level)
	case Quote:
		return "blockquote"
	case OrderedList:
		return "ol"
	case UnorderedList:
		return "ul"
	}
	return ""
}

// Token is the canonical toolbar token for the command.
func (c Command) Token() string {
	switch c.Kind {
	case Heading:
		return fmt.Sprintf("h%d", c.Level)
	case Align:
		return string(c.Align)
	}
	for tok, k := range simpleTokens {
		if k == c.Kind && tok != "quotes" {
			return tok
		}
	}
	return ""
}

func (c Command) String() string { return c.Token() }
