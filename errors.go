package datagrid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState reports an action submitted in an incompatible cursor
	// mode or addressing a cell outside the view.
	ErrInvalidState = errors.New("invalid state")

	// ErrContractRejected reports a veto from the row contract.
	ErrContractRejected = errors.New("rejected by row contract")

	// ErrLent reports an action submitted while the UI state is lent out.
	ErrLent = errors.New("ui state is lent out")

	errReadOnly = errors.New("row is read-only")
)

// RejectionKind classifies a rejected action.
type RejectionKind int

const (
	RejectInvalidState RejectionKind = iota
	RejectContract
	RejectLent
)

func (k RejectionKind) String() string {
	switch k {
	case RejectInvalidState:
		return "invalid state"
	case RejectContract:
		return "contract rejected"
	case RejectLent:
		return "lent"
	default:
		return "unknown"
	}
}

func (k RejectionKind) sentinel() error {
	switch k {
	case RejectContract:
		return ErrContractRejected
	case RejectLent:
		return ErrLent
	default:
		return ErrInvalidState
	}
}

// RejectionError is returned for every rejected action. Nothing of the
// action was applied. It matches the sentinel of its Kind with errors.Is.
type RejectionError struct {
	Kind   RejectionKind
	Action string
	Err    error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Action, e.Kind, e.Err)
}

func (e *RejectionError) Unwrap() error { return e.Err }

func (e *RejectionError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func invalidState(a Action, format string, args ...any) error {
	return &RejectionError{Kind: RejectInvalidState, Action: a.Name(), Err: fmt.Errorf(format, args...)}
}

func contractRejected(a Action, err error) error {
	return &RejectionError{Kind: RejectContract, Action: a.Name(), Err: err}
}
