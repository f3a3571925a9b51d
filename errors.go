package priosched

import "errors"

var (
	ErrNilProc          = errors.New("priosched: nil process")
	ErrEmptyName        = errors.New("priosched: empty process name")
	ErrDuplicateName    = errors.New("priosched: duplicate process name")
	ErrInvalidBurst     = errors.New("priosched: burst time must be > 0")
	ErrInvalidArrival   = errors.New("priosched: arrival time must be >= 0")
	ErrInvalidPriority  = errors.New("priosched: priority must be >= 1")
	ErrProcFinished     = errors.New("priosched: process already finished")
	ErrNoProcs          = errors.New("priosched: no processes")
	ErrInvalidCtxSwitch = errors.New("priosched: context switch time must be >= 0")
	ErrInvalidConfig    = errors.New("priosched: invalid config")
	ErrUnknownFormat    = errors.New("priosched: unknown format")
)
