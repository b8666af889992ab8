package compress

import (
	"fmt"

	"github.com/pharaohs/pitchside/internal/domain"
)

// Stage names where compression failed
type Stage string

const (
	StageOpen   Stage = "open"
	StageDecode Stage = "decode"
	StageEncode Stage = "encode"
	StageProbe  Stage = "probe"
	StageVideo  Stage = "transcode"
)

// Error is a compression failure. It matches domain.ErrCompressionFailed.
type Error struct {
	Stage Stage
	Name  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("compress %s: %s: %v", e.Name, e.Stage, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{domain.ErrCompressionFailed, e.Err}
}

func fail(stage Stage, name string, err error) error {
	return &Error{Stage: stage, Name: name, Err: err}
}
