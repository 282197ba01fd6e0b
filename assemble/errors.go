package assemble

import "fmt"

// ConversionError marks a failure while turning one fragment into a slide.
// Index is the zero based position of the fragment in the manifest order.
type ConversionError struct {
	Index    int
	Fragment string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("unable to convert fragment %d (%s): %v", e.Index+1, e.Fragment, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// SerializationError marks a failure while writing the assembled deck out.
type SerializationError struct {
	Output string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("unable to serialize deck to %s: %v", e.Output, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
