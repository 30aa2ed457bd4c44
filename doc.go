// Package jsonhl pretty-prints JSON and records which ranges of the output
// are keys, strings, numbers, booleans and nulls, so a renderer can style
// them without parsing the text again.
//
// # Writing
//
// A [Writer] consumes structural and scalar events and produces indented
// text plus a list of [Annotation] values:
//
//	w := jsonhl.NewWriter()
//	w.BeginObject()
//	w.Name("x")
//	w.BeginArray()
//	w.Int(1)
//	w.Int(2)
//	w.EndArray()
//	w.EndObject()
//	doc, err := w.Close()
//
// Every method returns an error. Misuse, such as closing an array inside an
// object or giving two keys in a row, fails immediately with an error that
// wraps one of the sentinels below, and the writer keeps returning that
// error. A [Writer] is not safe for concurrent use.
//
// A tree [Value] can be written in one call with [Writer.Write] or
// [Format]. Values come from the constructors ([Object], [Array], [String],
// [Number], ...) or from the decoders [FromJSON], [FromYAML],
// [FromYAMLStream] and [FromAny].
//
// # Documents
//
// By default a writer holds one top-level value and closes as soon as it is
// complete; a second top-level value fails with [ErrClosed]. Use
// [WithMultiDocument] to write several documents back to back, one per line.
//
// # Rendering
//
// [Document.Spans] splits the output into styled and unstyled pieces.
// [Formatter] renders them with terminal colors and [WriteHTML] as HTML
// spans. [Marshal] and [Encoder] go straight from a Go value to colorized
// output.
//
// # Errors
//
//   - [ErrNesting]: a close or value that does not fit the current context
//   - [ErrDanglingKey]: a key not followed by a value
//   - [ErrClosed]: any call after the writer is terminal
//   - [ErrInvalidValue]: NaN, infinity or malformed number text
//   - [ErrIncomplete]: [Writer.Close] before the document is complete
//
// [FromYAML] and [FromYAMLStream] fail with [ErrAlias] on self-referencing or
// runaway YAML aliases.
package jsonhl
