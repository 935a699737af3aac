package viewdto

import (
	"errors"

	"github.com/park285/cheese-board-viewer/internal/board"
	"github.com/park285/cheese-board-viewer/internal/engine"
	"github.com/park285/cheese-board-viewer/internal/position"
)

type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "board viewer error"
}

const (
	CodeUnknownRecordCount = "unknown_record_count"
	CodeMalformedRecord    = "malformed_record"
	CodeBufferShape        = "buffer_shape"
	CodeDuplicatePlacement = "duplicate_placement"
	CodeInvalidPlacement   = "invalid_placement"
	CodeStaleBufferView    = "stale_buffer_view"
	CodeIllegalMove        = "illegal_move"
	CodeGameFinished       = "game_finished"
	CodeGameNotFound       = "game_not_found"
	CodeEnumMismatch       = "enumeration_mismatch"
	CodeInternal           = "internal"
)

// FromError classifies core errors for the application boundary. Only a
// lent-out buffer is worth retrying; the rest will fail the same way again.
func FromError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de DomainError
	if errors.As(err, &de) {
		return &de
	}
	out := &DomainError{Code: CodeInternal, Message: err.Error()}
	switch {
	case errors.Is(err, position.ErrUnknownRecordCount):
		out.Code = CodeUnknownRecordCount
	case errors.Is(err, position.ErrMalformedRecord):
		out.Code = CodeMalformedRecord
	case errors.Is(err, position.ErrBufferTooShort),
		errors.Is(err, position.ErrCountOutOfRange),
		errors.Is(err, position.ErrInvalidLayout):
		out.Code = CodeBufferShape
	case errors.Is(err, board.ErrDuplicatePlacement):
		out.Code = CodeDuplicatePlacement
	case errors.Is(err, board.ErrInvalidPlacement), errors.Is(err, board.ErrNotInitialized):
		out.Code = CodeInvalidPlacement
	case errors.Is(err, board.ErrEnumerationMismatch):
		out.Code = CodeEnumMismatch
	case errors.Is(err, engine.ErrStaleBufferView):
		out.Code = CodeStaleBufferView
		out.Retryable = true
	case errors.Is(err, engine.ErrIllegalMove):
		out.Code = CodeIllegalMove
	case errors.Is(err, engine.ErrGameFinished):
		out.Code = CodeGameFinished
	case errors.Is(err, engine.ErrGameNotFound):
		out.Code = CodeGameNotFound
	}
	return out
}
