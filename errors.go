package ggwriter

import "errors"

// Sentinel errors returned by the recording context, its records and the
// wire codec. Callers match them with errors.Is; returned errors usually
// wrap them with detail.
var (
	// ErrInvalidOpacity is returned when an opacity lies outside [0, 1].
	ErrInvalidOpacity = errors.New("ggwriter: opacity outside [0, 1]")

	// ErrUnsupportedCompositeMode is returned for compositing rules other
	// than source-over, except clear on an empty context.
	ErrUnsupportedCompositeMode = errors.New("ggwriter: unsupported composite mode")

	// ErrOutOfBounds is returned when an image source rectangle is not
	// contained in the image.
	ErrOutOfBounds = errors.New("ggwriter: source rectangle outside image")

	// ErrNonInvertibleTransform is returned when a user-space query needs
	// the inverse of a singular transform.
	ErrNonInvertibleTransform = errors.New("ggwriter: transform is not invertible")

	// ErrSerialization is returned for malformed or truncated record
	// streams.
	ErrSerialization = errors.New("ggwriter: malformed record stream")
)
