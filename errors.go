package sketch

import "errors"

// Error categories. Every error returned by sketch wraps exactly one of
// them; test with errors.Is.
var (
	// ErrUsage reports a programming error: unbalanced push/pop, drawing
	// outside a frame, a cyclic layer append, an out-of-range filter
	// parameter.
	ErrUsage = errors.New("sketch: usage error")

	// ErrResource reports a texture, framebuffer or font that could not
	// be created or was used after release.
	ErrResource = errors.New("sketch: resource error")

	// ErrDecode reports an unreadable image or font.
	ErrDecode = errors.New("sketch: decode error")

	// ErrUserHook wraps an error or panic raised by a user callback.
	ErrUserHook = errors.New("sketch: user hook failed")

	// ErrClosed is returned when using a closed canvas or window.
	ErrClosed = errors.New("sketch: closed")
)
