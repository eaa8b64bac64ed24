package valueobjects

// Response is an agent's answer, the end of an exchange.
type Response struct {
	Text string `json:"text"`
}

// NewResponse creates a response value object
func NewResponse(text string) Response {
	return Response{Text: text}
}

// String returns the response text
func (r Response) String() string {
	return r.Text
}
