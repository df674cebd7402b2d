package risk

import "fmt"

// Kind distinguishes the two input failures detected before classification.
type Kind string

const (
	KindMissingInput  Kind = "MissingInput"
	KindInvalidFormat Kind = "InvalidFormat"
)

// Sentinel errors for errors.Is matching against an *InputError.
var (
	ErrMissingInput  = &InputError{Kind: KindMissingInput}
	ErrInvalidFormat = &InputError{Kind: KindInvalidFormat}
)

// InputError reports unusable sensor data.
type InputError struct {
	Kind    Kind
	Message string
}

func (e *InputError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// Is matches any InputError of the same kind.
func (e *InputError) Is(target error) bool {
	t, ok := target.(*InputError)
	return ok && t.Kind == e.Kind
}

func missingInput(msg string) error {
	return &InputError{Kind: KindMissingInput, Message: msg}
}

func invalidFormat(format string, args ...any) error {
	return &InputError{Kind: KindInvalidFormat, Message: fmt.Sprintf(format, args...)}
}
