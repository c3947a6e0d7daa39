package player

import (
	"errors"
	"fmt"

	"github.com/vlog-app/vlog/media"
)

var (
	// ErrMediaLoad matches every *MediaLoadError.
	ErrMediaLoad = errors.New("media failed to load")
	// ErrEngine wraps failures of engine commands and engine startup.
	ErrEngine = errors.New("playback engine failure")
)

// MediaLoadError reports a playlist item that could not be loaded.
type MediaLoadError struct {
	Ref   media.Reference
	Index int
	Err   error
}

func (e *MediaLoadError) Error() string {
	if e.Ref.Locator == "" {
		return fmt.Sprintf("%s: %v", ErrMediaLoad, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMediaLoad, e.Ref.DisplayTitle(), e.Err)
}

func (e *MediaLoadError) Unwrap() []error {
	return []error{ErrMediaLoad, e.Err}
}
