package gsa

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBaseURL is returned before any network access when the
	// merged options carry no GSA base URL.
	ErrMissingBaseURL = errors.New("GSA URL missing. Please provide valid arguments")

	// ErrUnsupportedOutput is returned for a search output other than json or xml.
	ErrUnsupportedOutput = errors.New("unsupported search output")

	// ErrUnsupportedFormat is returned for a suggest format other than rich or os.
	ErrUnsupportedFormat = errors.New("unsupported suggest format")

	// ErrInvalidOption is returned when a supplied option cannot be decoded
	// into its field type.
	ErrInvalidOption = errors.New("invalid option")

	// ErrDecode marks failures to decode a GSA response body.
	ErrDecode = errors.New("decode GSA response")
)

// DecodeError describes a response body that could not be decoded.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// IsConfigError reports whether err is a configuration failure raised
// before any network access.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingBaseURL) ||
		errors.Is(err, ErrUnsupportedOutput) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrInvalidOption)
}
