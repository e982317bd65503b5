package playlist

import "fmt"

// FetchError reports a network failure while retrieving a playlist document.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch playlist %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a malformed playlist document.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse playlist %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DepthError reports a variant chain that never reached a media playlist
// within the allowed nesting depth.
type DepthError struct {
	MaxDepth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("variant nesting reached %d levels without a media playlist", e.MaxDepth)
}
