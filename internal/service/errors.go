package service

// ValidationError reports an input field rejected after request decoding,
// such as a status made only of whitespace.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}
