// Package ingestion reads CV source documents (PDF or plain text) and extracts their text.
package ingestion

import (
	"errors"
	"fmt"
)

// ErrUnreadableSource matches every UnreadableSourceError with errors.Is
var ErrUnreadableSource = errors.New("unreadable source")

// UnreadableSourceError reports a source document whose text cannot be extracted:
// a missing, empty, page-less or corrupt file.
type UnreadableSourceError struct {
	Path    string
	Message string
	Cause   error
}

func (e *UnreadableSourceError) Error() string {
	msg := fmt.Sprintf("unreadable source %q: %s", e.Path, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *UnreadableSourceError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrUnreadableSource) match any UnreadableSourceError
func (e *UnreadableSourceError) Is(target error) bool {
	return target == ErrUnreadableSource
}

func unreadable(path, message string, cause error) *UnreadableSourceError {
	return &UnreadableSourceError{Path: path, Message: message, Cause: cause}
}
