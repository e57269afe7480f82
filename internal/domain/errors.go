package domain

import "fmt"

// NotFoundError reports an unresolved card or team reference.
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Ref)
}

// CapExceededError reports a roster change that would break the salary cap.
type CapExceededError struct {
	Team string
	Cost float64
	Cap  float64
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("team %q would spend %.2f over cap %.2f", e.Team, e.Cost, e.Cap)
}

// TradeLimitError reports an exhausted season trade quota.
type TradeLimitError struct {
	Team string
}

func (e *TradeLimitError) Error() string {
	return fmt.Sprintf("team %q has already used its trade this season", e.Team)
}

// CorruptStateError reports a persisted state that failed integrity checks
// on load.
type CorruptStateError struct {
	Reason string
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt league state: %s", e.Reason)
}

// InvalidPhaseError reports a command issued in the wrong season phase.
type InvalidPhaseError struct {
	Op    string
	Phase Phase
}

func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("operation %q not valid in phase %q", e.Op, e.Phase)
}

// PersistenceError wraps I/O failures from the state file. The engine never
// retries; the caller decides.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
