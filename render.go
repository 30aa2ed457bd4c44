package jsonhl

import (
	"bytes"
	"fmt"
	"io"

	"github.com/amterp/color"
)

// SprintfFuncer is an interface wrapper around the color package. It returns
// a function that formats like fmt.Sprintf and wraps the result in the
// escape codes of one style, so color.Color and custom styles can be used
// interchangeably by a Formatter.
type SprintfFuncer interface {
	SprintfFunc() func(format string, a ...interface{}) string
}

// Default styles. A Formatter uses them for every field it leaves nil.
var (
	// DefaultSpaceColor styles newlines and indentation. Default is no color.
	DefaultSpaceColor = color.New()
	// DefaultCommaColor styles ',' between elements. Default is bold.
	DefaultCommaColor = color.New(color.Bold)
	// DefaultColonColor styles ':' between keys and values. Default is bold.
	DefaultColonColor = color.New(color.Bold)
	// DefaultObjectColor styles '{' and '}'. Default is bold.
	DefaultObjectColor = color.New(color.Bold)
	// DefaultArrayColor styles '[' and ']'. Default is bold.
	DefaultArrayColor = color.New(color.Bold)
	// DefaultKeyQuoteColor styles the quotes around keys. Default is bold blue.
	DefaultKeyQuoteColor = color.New(color.FgBlue, color.Bold)
	// DefaultKeyColor styles key text. Default is bold blue.
	DefaultKeyColor = color.New(color.FgBlue, color.Bold)
	// DefaultStringQuoteColor styles the quotes around strings. Default is green.
	DefaultStringQuoteColor = color.New(color.FgGreen)
	// DefaultStringColor styles string text. Default is green.
	DefaultStringColor = color.New(color.FgGreen)
	// DefaultNumberColor styles numbers. Default is cyan.
	DefaultNumberColor = color.New(color.FgCyan)
	// DefaultNullColor styles null. Default is bold black, which most
	// terminals show as gray.
	DefaultNullColor = color.New(color.FgBlack, color.Bold)
)

// DefaultFormatter is used by Marshal, MarshalValue and NewEncoder.
var DefaultFormatter = &Formatter{}

// Formatter renders an annotated Document with terminal colors. The zero
// value uses the Default* styles.
//
// BooleanColor falls back to the string style (StringColor, then
// DefaultStringColor) rather than to a default of its own.
type Formatter struct {
	// SpaceColor styles newlines and indentation.
	SpaceColor SprintfFuncer
	// CommaColor styles ',' between elements.
	CommaColor SprintfFuncer
	// ColonColor styles ':' between keys and values.
	ColonColor SprintfFuncer
	// ObjectColor styles '{' and '}'.
	ObjectColor SprintfFuncer
	// ArrayColor styles '[' and ']'.
	ArrayColor SprintfFuncer
	// KeyQuoteColor styles the quotes around keys.
	KeyQuoteColor SprintfFuncer
	// KeyColor styles the escaped text of keys.
	KeyColor SprintfFuncer
	// StringQuoteColor styles the quotes around string values.
	StringQuoteColor SprintfFuncer
	// StringColor styles the escaped text of string values.
	StringColor SprintfFuncer
	// NumberColor styles numbers.
	NumberColor SprintfFuncer
	// BooleanColor styles true and false.
	BooleanColor SprintfFuncer
	// NullColor styles null.
	NullColor SprintfFuncer
}

// clone returns a shallow copy so later changes to f do not affect an Encoder.
func (f *Formatter) clone() *Formatter {
	g := *f
	return &g
}

// pick returns c, or def when c is nil.
func pick(c, def SprintfFuncer) SprintfFuncer {
	if c != nil {
		return c
	}
	return def
}

// Format writes doc to dst, styling each annotated range by its category and
// each structural character by its kind. Removing the escape codes from the
// output yields doc.Text exactly.
func (f *Formatter) Format(dst io.Writer, doc *Document) error {
	p := newPrinter(f)
	var buf bytes.Buffer
	for span := range doc.Spans() {
		if span.Styled {
			p.printToken(&buf, span)
		} else {
			p.printStructure(&buf, span.Text)
		}
	}
	if _, err := dst.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("jsonhl: failed to write colorized output: %w", err)
	}
	return nil
}

// printer holds the resolved sprintf functions of one Formatter.
type printer struct {
	// Structural characters and whitespace.
	space, comma, colon, object, array func(string, ...interface{}) string
	// Quotes and text of keys.
	keyQuote, key func(string, ...interface{}) string
	// Quotes and text of string values.
	stringQuote, str func(string, ...interface{}) string
	// Bare literals.
	number, boolean, null func(string, ...interface{}) string
}

func newPrinter(f *Formatter) *printer {
	stringColor := pick(f.StringColor, DefaultStringColor)
	return &printer{
		space:       pick(f.SpaceColor, DefaultSpaceColor).SprintfFunc(),
		comma:       pick(f.CommaColor, DefaultCommaColor).SprintfFunc(),
		colon:       pick(f.ColonColor, DefaultColonColor).SprintfFunc(),
		object:      pick(f.ObjectColor, DefaultObjectColor).SprintfFunc(),
		array:       pick(f.ArrayColor, DefaultArrayColor).SprintfFunc(),
		keyQuote:    pick(f.KeyQuoteColor, DefaultKeyQuoteColor).SprintfFunc(),
		key:         pick(f.KeyColor, DefaultKeyColor).SprintfFunc(),
		stringQuote: pick(f.StringQuoteColor, DefaultStringQuoteColor).SprintfFunc(),
		str:         stringColor.SprintfFunc(),
		number:      pick(f.NumberColor, DefaultNumberColor).SprintfFunc(),
		boolean:     pick(f.BooleanColor, stringColor).SprintfFunc(),
		null:        pick(f.NullColor, DefaultNullColor).SprintfFunc(),
	}
}

func (p *printer) printToken(buf *bytes.Buffer, span Span) {
	switch span.Category {
	case CategoryKey:
		p.printQuoted(buf, span.Text, p.keyQuote, p.key)
	case CategoryString:
		p.printQuoted(buf, span.Text, p.stringQuote, p.str)
	case CategoryNumber:
		buf.WriteString(p.number("%s", span.Text))
	case CategoryBoolean:
		buf.WriteString(p.boolean("%s", span.Text))
	case CategoryNull:
		buf.WriteString(p.null("%s", span.Text))
	default:
		buf.WriteString(span.Text)
	}
}

// printQuoted styles the quotes of a string literal separately from its
// escaped contents.
func (p *printer) printQuoted(buf *bytes.Buffer, lit string, quote, text func(string, ...interface{}) string) {
	buf.WriteString(quote(`"`))
	if inner := lit[1 : len(lit)-1]; inner != "" {
		buf.WriteString(text("%s", inner))
	}
	buf.WriteString(quote(`"`))
}

// printStructure styles the unannotated text between tokens: brackets,
// separators and whitespace runs.
func (p *printer) printStructure(buf *bytes.Buffer, s string) {
	for i := 0; i < len(s); {
		switch s[i] {
		case '{', '}':
			buf.WriteString(p.object("%c", s[i]))
		case '[', ']':
			buf.WriteString(p.array("%c", s[i]))
		case ',':
			buf.WriteString(p.comma(","))
		case ':':
			buf.WriteString(p.colon(":"))
		default:
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			buf.WriteString(p.space("%s", s[i:j]))
			i = j
			continue
		}
		i++
	}
}

// isSpace reports whether b is JSON insignificant whitespace.
func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

// Marshal works like encoding/json.MarshalIndent but returns indented,
// colorized output using the DefaultFormatter.
func Marshal(v interface{}) ([]byte, error) {
	return MarshalWithFormatter(v, DefaultFormatter)
}

// MarshalWithFormatter works like Marshal but uses the provided Formatter.
func MarshalWithFormatter(v interface{}, f *Formatter) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoderWithFormatter(&buf, f).encode(v, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalValue returns the colorized rendering of a tree value using the
// DefaultFormatter.
func MarshalValue(v Value) ([]byte, error) {
	return MarshalWithFormatter(v, DefaultFormatter)
}

// Encoder writes colorized JSON documents to an output stream.
type Encoder struct {
	w      io.Writer
	f      *Formatter
	indent string
}

// NewEncoder returns an Encoder that writes to w using the DefaultFormatter.
func NewEncoder(w io.Writer) *Encoder {
	return NewEncoderWithFormatter(w, DefaultFormatter)
}

// NewEncoderWithFormatter returns an Encoder that writes to w using a copy
// of f.
func NewEncoderWithFormatter(w io.Writer, f *Formatter) *Encoder {
	if f == nil {
		panic("jsonhl: cannot create Encoder with a nil Formatter")
	}
	return &Encoder{w: w, f: f.clone(), indent: DefaultIndent}
}

// SetIndent sets the per-level indentation string.
func (enc *Encoder) SetIndent(indent string) {
	enc.indent = indent
}

// Encode writes the colorized rendering of v followed by a newline. Tree
// values are written as they are; anything else goes through FromAny.
func (enc *Encoder) Encode(v interface{}) error {
	return enc.encode(v, true)
}

func (enc *Encoder) encode(v interface{}, terminateWithNewline bool) error {
	tree, err := FromAny(v)
	if err != nil {
		return err
	}
	doc, err := Format(tree, WithIndent(enc.indent))
	if err != nil {
		return fmt.Errorf("jsonhl: failed to format value: %w", err)
	}
	if err := enc.f.Format(enc.w, doc); err != nil {
		return err
	}
	if terminateWithNewline {
		if _, err := io.WriteString(enc.w, "\n"); err != nil {
			return fmt.Errorf("jsonhl: failed to write colorized output: %w", err)
		}
	}
	return nil
}
