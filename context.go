package jsonhl

// context is the syntactic position the writer currently occupies. The top
// of the writer's context stack always describes the immediately enclosing
// position.
type context uint8

const (
	// emptyDocument means no top-level value has been written yet.
	emptyDocument context = iota
	// nonemptyDocument means a top-level value has been started.
	nonemptyDocument
	// emptyArray is an array with no elements; it closes without a newline.
	emptyArray
	// nonemptyArray needs a comma and newline before the next element.
	nonemptyArray
	// emptyObject is an object with no members; it closes without a newline.
	emptyObject
	// danglingName is an object whose most recent element is a key. The
	// next element must be a value.
	danglingName
	// nonemptyObject needs a comma and newline before the next key.
	nonemptyObject
	// closed means the writer is terminal.
	closed
)

func (c context) String() string {
	switch c {
	case emptyDocument:
		return "empty document"
	case nonemptyDocument:
		return "nonempty document"
	case emptyArray:
		return "empty array"
	case nonemptyArray:
		return "nonempty array"
	case emptyObject:
		return "empty object"
	case danglingName:
		return "dangling name"
	case nonemptyObject:
		return "nonempty object"
	case closed:
		return "closed"
	default:
		return "unknown"
	}
}

func (c context) inObject() bool {
	return c == emptyObject || c == nonemptyObject
}

// stack tracks nesting. The bottom entry is the document wrapper, so its
// depth is the nesting depth plus one.
type stack struct {
	s []context
}

func newStack() *stack {
	s := &stack{s: make([]context, 0, 32)}
	s.push(emptyDocument)
	return s
}

func (s *stack) push(c context) {
	s.s = append(s.s, c)
}

func (s *stack) pop() context {
	top := s.s[len(s.s)-1]
	s.s = s.s[:len(s.s)-1]
	return top
}

func (s *stack) peek() context {
	return s.s[len(s.s)-1]
}

func (s *stack) replaceTop(c context) {
	s.s[len(s.s)-1] = c
}

func (s *stack) len() int {
	return len(s.s)
}
