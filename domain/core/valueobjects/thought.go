package valueobjects

// NoParent marks a thought without a predecessor in its exchange.
const NoParent = -1

// Thought is one intermediate reasoning step recorded during an exchange.
// Thoughts form a backward chain: Parent holds the arena index of the
// immediately preceding thought within the same exchange, or NoParent for
// the first one. Storing the index rather than a live reference keeps the
// chain append-only and replayable.
type Thought struct {
	Subquery string      `json:"subquery"`
	Context  interface{} `json:"context"`
	Parent   int         `json:"parent"`
}

// NewThought creates a thought without a predecessor
func NewThought(subquery string, context interface{}) Thought {
	return Thought{
		Subquery: subquery,
		Context:  context,
		Parent:   NoParent,
	}
}

// WithParent returns a copy of the thought linked to a predecessor index
func (t Thought) WithParent(parent int) Thought {
	t.Parent = parent
	return t
}

// HasParent reports whether the thought has a predecessor
func (t Thought) HasParent() bool {
	return t.Parent != NoParent
}
