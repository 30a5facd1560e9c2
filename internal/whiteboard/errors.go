package whiteboard

import (
	"errors"
	"fmt"
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrInvalidScript = errors.New("invalid pointer script")
)

// BoardError describes a failed session operation.
type BoardError struct {
	Op      string
	Board   string
	Err     error
	Details string
}

func (e *BoardError) Error() string {
	switch {
	case e.Board != "" && e.Details != "":
		return fmt.Sprintf("%s %s: %v (%s)", e.Op, e.Board, e.Err, e.Details)
	case e.Board != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Board, e.Err)
	case e.Details != "":
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BoardError) Unwrap() error {
	return e.Err
}

func NewError(op string, err error) *BoardError {
	return &BoardError{Op: op, Err: err}
}

func NewBoardError(op, board string, err error) *BoardError {
	return &BoardError{Op: op, Board: board, Err: err}
}

func WrapError(op string, err error, details string) *BoardError {
	return &BoardError{Op: op, Err: err, Details: details}
}
