package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// OpenAction enters the directory under the cursor, or reveals a search match
type OpenAction struct{}

func (a OpenAction) Type() string { return "open" }

type ParentAction struct{}

func (a ParentAction) Type() string { return "parent" }

type BackAction struct{}

func (a BackAction) Type() string { return "back" }

type ForwardAction struct{}

func (a ForwardAction) Type() string { return "forward" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // optional initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode Mode
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Listing actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type CycleSortAction struct{}

func (a CycleSortAction) Type() string { return "cycle_sort" }

type ReverseSortAction struct{}

func (a ReverseSortAction) Type() string { return "reverse_sort" }

type ToggleHiddenAction struct{}

func (a ToggleHiddenAction) Type() string { return "toggle_hidden" }

type AddQuickAccessAction struct{}

func (a AddQuickAccessAction) Type() string { return "add_quick_access" }

// QuickAccessAction jumps to the quick-access location at Index
type QuickAccessAction struct {
	Index int
}

func (a QuickAccessAction) Type() string { return "quick_access" }

// Search actions
type StopSearchAction struct{}

func (a StopSearchAction) Type() string { return "stop_search" }

type CloseResultsAction struct{}

func (a CloseResultsAction) Type() string { return "close_results" }

type AnswerTimeoutAction struct {
	Continue bool
}

func (a AnswerTimeoutAction) Type() string { return "answer_timeout" }

// Other actions
type OpenPagerAction struct{}

func (a OpenPagerAction) Type() string { return "open_pager" }

type ScrollHelpAction struct {
	Delta int
	Reset bool // back to the top
}

func (a ScrollHelpAction) Type() string { return "scroll_help" }

type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }

// PopModeAction returns to the mode that was active before the current one
type PopModeAction struct{}

func (a PopModeAction) Type() string { return "pop_mode" }
