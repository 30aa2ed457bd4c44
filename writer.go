package jsonhl

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sentinel errors for programmatic error handling. Every error returned by a
// Writer wraps exactly one of them.
var (
	// ErrNesting reports a close or value that does not fit the current
	// context, such as EndArray inside an object or a value in an object
	// without a preceding key.
	ErrNesting = errors.New("jsonhl: nesting problem")
	// ErrDanglingKey reports a key that was not followed by a value.
	ErrDanglingKey = errors.New("jsonhl: dangling key")
	// ErrClosed reports an operation on a terminal writer.
	ErrClosed = errors.New("jsonhl: writer is closed")
	// ErrInvalidValue reports a number that is not a finite JSON number.
	ErrInvalidValue = errors.New("jsonhl: invalid value")
	// ErrIncomplete reports a Close before the document was complete.
	ErrIncomplete = errors.New("jsonhl: incomplete document")
)

// DefaultIndent is the string written once per nesting level after every
// newline.
const DefaultIndent = "  "

// Option configures a Writer.
type Option func(*Writer)

// WithIndent sets the per-level indentation string.
func WithIndent(indent string) Option {
	return func(w *Writer) { w.indent = indent }
}

// WithMultiDocument allows several top-level values to be written back to
// back. Each document after the first starts on a new line. Without this
// option the writer closes as soon as its single top-level value is done.
func WithMultiDocument() Option {
	return func(w *Writer) { w.multi = true }
}

// Writer emits indented JSON text from a sequence of structural and scalar
// events, recording which ranges of the output are keys, strings, numbers,
// booleans and nulls.
//
// A Writer is not safe for concurrent use. Use one Writer per document.
//
// The first error a Writer returns is sticky: every later call returns the
// same error and the writer must be discarded.
type Writer struct {
	stack *stack
	// deferred is the key given to Name, written once its value arrives.
	deferred    string
	hasDeferred bool
	out         strings.Builder
	annotations []Annotation
	// indent is written once per nesting level after each newline.
	indent string
	multi  bool
	// err is the first error returned; it is repeated by every later call.
	err error
}

// NewWriter returns a Writer positioned at the start of an empty document.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		stack:  newStack(),
		indent: DefaultIndent,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BeginArray opens a new array. Each call must be paired with EndArray.
func (w *Writer) BeginArray() error {
	return w.open(emptyArray, '[')
}

// EndArray closes the current array.
func (w *Writer) EndArray() error {
	return w.close(emptyArray, nonemptyArray, ']')
}

// BeginObject opens a new object. Each call must be paired with EndObject.
func (w *Writer) BeginObject() error {
	return w.open(emptyObject, '{')
}

// EndObject closes the current object.
func (w *Writer) EndObject() error {
	return w.close(emptyObject, nonemptyObject, '}')
}

// Name sets the key for the next value. It may only be called directly
// inside an object.
func (w *Writer) Name(key string) error {
	if w.err != nil {
		return w.err
	}
	if w.hasDeferred {
		return w.fail(fmt.Errorf("%w: name %q while %q is pending", ErrDanglingKey, key, w.deferred))
	}
	ctx := w.stack.peek()
	if ctx == closed {
		return w.fail(ErrClosed)
	}
	if !ctx.inObject() {
		return w.fail(fmt.Errorf("%w: name %q in %s", ErrNesting, key, ctx))
	}
	w.deferred = key
	w.hasDeferred = true
	return nil
}

// String writes a string value.
func (w *Writer) String(s string) error {
	start, err := w.beforeScalar()
	if err != nil {
		return err
	}
	writeQuoted(&w.out, s)
	w.annotate(start, CategoryString)
	w.completeDocument()
	return nil
}

// Bool writes true or false.
func (w *Writer) Bool(b bool) error {
	return w.literal(strconv.FormatBool(b), CategoryBoolean)
}

// Null writes null.
func (w *Writer) Null() error {
	return w.literal("null", CategoryNull)
}

// Float writes a finite floating point number in its shortest decimal form.
func (w *Writer) Float(f float64) error {
	if w.err != nil {
		return w.err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return w.fail(fmt.Errorf("%w: non-finite number %v", ErrInvalidValue, f))
	}
	return w.literal(strconv.FormatFloat(f, 'g', -1, 64), CategoryNumber)
}

// Int writes an integer.
func (w *Writer) Int(i int64) error {
	return w.literal(strconv.FormatInt(i, 10), CategoryNumber)
}

// Uint writes an unsigned integer.
func (w *Writer) Uint(u uint64) error {
	return w.literal(strconv.FormatUint(u, 10), CategoryNumber)
}

// Number writes a number that is already in JSON textual form, such as the
// raw text a decoder produced. The text is written unchanged.
func (w *Writer) Number(text string) error {
	if w.err != nil {
		return w.err
	}
	if !isNumber(text) {
		return w.fail(fmt.Errorf("%w: %q is not a JSON number", ErrInvalidValue, text))
	}
	return w.literal(text, CategoryNumber)
}

// Close finishes the document and returns a copy of the output text and its
// annotations. The writer is closed afterwards.
func (w *Writer) Close() (*Document, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.hasDeferred {
		return nil, w.fail(fmt.Errorf("%w: %w: %q", ErrIncomplete, ErrDanglingKey, w.deferred))
	}
	if depth := w.Depth(); depth > 0 {
		return nil, w.fail(fmt.Errorf("%w: %d unclosed containers", ErrIncomplete, depth))
	}
	if w.stack.peek() == emptyDocument {
		return nil, w.fail(fmt.Errorf("%w: no value written", ErrIncomplete))
	}

	doc := &Document{
		Text:        w.out.String(),
		Annotations: make([]Annotation, len(w.annotations)),
	}
	copy(doc.Annotations, w.annotations)

	w.stack.replaceTop(closed)
	w.out.Reset()
	w.annotations = nil
	w.err = ErrClosed
	return doc, nil
}

// Depth returns the current nesting depth. It is zero at document level.
func (w *Writer) Depth() int {
	return w.stack.len() - 1
}

// fail records err as the sticky error and returns it.
func (w *Writer) fail(err error) error {
	w.err = err
	return err
}

func (w *Writer) open(empty context, bracket byte) error {
	if w.err != nil {
		return w.err
	}
	if err := w.writeDeferredName(); err != nil {
		return err
	}
	if err := w.beforeValue(); err != nil {
		return err
	}
	w.stack.push(empty)
	w.out.WriteByte(bracket)
	return nil
}

func (w *Writer) close(empty, nonempty context, bracket byte) error {
	if w.err != nil {
		return w.err
	}
	ctx := w.stack.peek()
	if ctx == closed {
		return w.fail(ErrClosed)
	}
	if ctx != empty && ctx != nonempty {
		return w.fail(fmt.Errorf("%w: %q in %s", ErrNesting, bracket, ctx))
	}
	if w.hasDeferred {
		return w.fail(fmt.Errorf("%w: %q", ErrDanglingKey, w.deferred))
	}
	w.stack.pop()
	if ctx == nonempty {
		w.newline()
	}
	w.out.WriteByte(bracket)
	w.completeDocument()
	return nil
}

func (w *Writer) literal(text string, category Category) error {
	start, err := w.beforeScalar()
	if err != nil {
		return err
	}
	w.out.WriteString(text)
	w.annotate(start, category)
	w.completeDocument()
	return nil
}

// beforeScalar flushes any deferred key and writes the separator for a
// scalar. It returns the offset at which the scalar's text begins.
func (w *Writer) beforeScalar() (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if err := w.writeDeferredName(); err != nil {
		return 0, err
	}
	if err := w.beforeValue(); err != nil {
		return 0, err
	}
	return w.out.Len(), nil
}

// completeDocument closes a single-document writer once its top-level value
// is finished.
func (w *Writer) completeDocument() {
	if !w.multi && w.stack.len() == 1 && w.stack.peek() == nonemptyDocument {
		w.stack.replaceTop(closed)
	}
}

// annotate tags the output from start to the current end.
func (w *Writer) annotate(start int, category Category) {
	w.annotations = append(w.annotations, Annotation{Start: start, End: w.out.Len(), Category: category})
}

func (w *Writer) writeDeferredName() error {
	if !w.hasDeferred {
		return nil
	}
	if err := w.beforeName(); err != nil {
		return err
	}
	start := w.out.Len()
	writeQuoted(&w.out, w.deferred)
	w.annotate(start, CategoryKey)
	w.deferred = ""
	w.hasDeferred = false
	return nil
}

// beforeName writes the separator and whitespace for a key and makes the
// object expect the key's value.
func (w *Writer) beforeName() error {
	switch ctx := w.stack.peek(); ctx {
	case nonemptyObject:
		w.out.WriteByte(',')
	case emptyObject:
	default:
		return w.fail(fmt.Errorf("%w: name in %s", ErrNesting, ctx))
	}
	w.newline()
	w.stack.replaceTop(danglingName)
	return nil
}

// beforeValue writes the separator and whitespace for a literal value,
// array or object, and makes the enclosing context expect either a closing
// bracket or another element.
func (w *Writer) beforeValue() error {
	switch ctx := w.stack.peek(); ctx {
	case emptyDocument:
		w.stack.replaceTop(nonemptyDocument)
	case nonemptyDocument:
		// Only reachable in multi-document mode.
		w.out.WriteByte('\n')
	case emptyArray:
		w.stack.replaceTop(nonemptyArray)
		w.newline()
	case nonemptyArray:
		w.out.WriteByte(',')
		w.newline()
	case danglingName:
		w.out.WriteString(": ")
		w.stack.replaceTop(nonemptyObject)
	case closed:
		return w.fail(ErrClosed)
	default:
		return w.fail(fmt.Errorf("%w: value in %s without a key", ErrNesting, ctx))
	}
	return nil
}

// newline starts a new line indented to the current depth.
func (w *Writer) newline() {
	w.out.WriteByte('\n')
	for i := 1; i < w.stack.len(); i++ {
		w.out.WriteString(w.indent)
	}
}

// isNumber reports whether s matches the JSON number grammar.
func isNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i == len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i == len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i == len(s)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
