package position

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRecordCount = errors.New("position buffer record count unknown")
	ErrCountOutOfRange    = errors.New("position buffer record count out of range")
	ErrBufferTooShort     = errors.New("position buffer shorter than declared records")
	ErrMalformedRecord    = errors.New("malformed position record")
	ErrInvalidLayout      = errors.New("invalid position record layout")
)

// MalformedRecordError reports the first record that violated domain bounds.
type MalformedRecordError struct {
	Index int
	Field string
	Value byte
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed position record %d: %s=%d", e.Index, e.Field, e.Value)
}

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }
