package jsonhl

import "iter"

// Category is the semantic class of an annotated range of output.
type Category uint8

const (
	// CategoryKey marks an object key, quotes included.
	CategoryKey Category = iota
	// CategoryString marks a string value, quotes included.
	CategoryString
	// CategoryNumber marks a number.
	CategoryNumber
	// CategoryBoolean marks true or false.
	CategoryBoolean
	// CategoryNull marks null.
	CategoryNull
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryKey:
		return "key"
	case CategoryString:
		return "string"
	case CategoryNumber:
		return "number"
	case CategoryBoolean:
		return "boolean"
	case CategoryNull:
		return "null"
	default:
		return "unknown"
	}
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{CategoryKey, CategoryString, CategoryNumber, CategoryBoolean, CategoryNull}
}

// Annotation tags the half-open byte range [Start, End) of a document's text.
// Key and string annotations include the surrounding quotes.
type Annotation struct {
	// Start is the byte offset of the first annotated byte.
	Start int
	// End is the byte offset just past the last annotated byte.
	End int
	// Category is the semantic class of the range.
	Category Category
}

// Document is the materialized output of a Writer. It is owned by the caller
// and shares no memory with the writer that produced it.
type Document struct {
	// Text is the indented JSON output.
	Text string
	// Annotations are sorted by Start and never overlap.
	Annotations []Annotation
}

// Span is a contiguous piece of a document's text. Styled reports whether
// the piece is covered by an annotation; Category is meaningful only then.
type Span struct {
	Text     string
	Category Category
	Styled   bool
}

// Spans partitions the document text into unstyled gaps and annotated
// ranges, in order. Concatenating every span's Text yields d.Text.
func (d *Document) Spans() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		pos := 0
		for _, a := range d.Annotations {
			if pos < a.Start {
				if !yield(Span{Text: d.Text[pos:a.Start]}) {
					return
				}
			}
			if !yield(Span{Text: d.Text[a.Start:a.End], Category: a.Category, Styled: true}) {
				return
			}
			pos = a.End
		}
		if pos < len(d.Text) {
			yield(Span{Text: d.Text[pos:]})
		}
	}
}
