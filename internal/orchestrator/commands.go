package orchestrator

// Command is an external request drained once per cycle.
type Command interface {
	command()
}

// ToggleVisibility flips whether the window is shown.
type ToggleVisibility struct{}

// TriggerBulkApply writes every item set of Source for the current champion.
// An empty Source means the selected source.
type TriggerBulkApply struct {
	Source string
}

func (ToggleVisibility) command() {}
func (TriggerBulkApply) command() {}
