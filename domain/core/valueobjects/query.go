package valueobjects

// Query is the immutable question that opens an exchange.
type Query struct {
	Text string `json:"text"`
}

// NewQuery creates a query value object
func NewQuery(text string) Query {
	return Query{Text: text}
}

// String returns the query text
func (q Query) String() string {
	return q.Text
}
