package datagrid

// Event describes an action the table accepted.
type Event struct {
	Action      string
	Recorded    bool // an undo entry was pushed
	Changed     bool // rows, view parameters or cursor changed
	UserEdit    bool // the action edited row content or structure
	ViewChanged bool // row membership or order may have changed
	Skipped     int  // paste cells that failed to decode or were vetoed
}

// Listener observes submitted actions. Implement it for logging, status
// lines, or persisting edits as they happen.
type Listener interface {
	// AfterApply is called once an action has been fully applied.
	AfterApply(ev Event)

	// AfterReject is called when an action was rejected; nothing was applied.
	AfterReject(action string, err error)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Applied  func(ev Event)
	Rejected func(action string, err error)
}

func (l ListenerFuncs) AfterApply(ev Event) {
	if l.Applied != nil {
		l.Applied(ev)
	}
}

func (l ListenerFuncs) AfterReject(action string, err error) {
	if l.Rejected != nil {
		l.Rejected(action, err)
	}
}
