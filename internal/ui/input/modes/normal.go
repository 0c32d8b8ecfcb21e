package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"fastexplorer/internal/ui/input/types"
)

type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "browse"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if actions, ok := listKeys(msg); ok {
		return actions, true
	}

	switch msg.Type {
	case tea.KeyEnter:
		return []types.Action{types.OpenAction{}}, true
	case tea.KeyBackspace:
		return []types.Action{types.ParentAction{}}, true
	case tea.KeyLeft:
		return []types.Action{types.BackAction{}}, true
	case tea.KeyRight:
		return []types.Action{types.ForwardAction{}}, true
	case tea.KeyEsc:
		// clears an active quick filter
		return []types.Action{types.CancelTextAction{Mode: types.ModeFilter}}, true
	}

	switch msg.String() {
	case "u":
		return []types.Action{types.ParentAction{}}, true
	case "h":
		return []types.Action{types.BackAction{}}, true
	case "l":
		return []types.Action{types.ForwardAction{}}, true
	case "r":
		return []types.Action{types.RefreshAction{}}, true
	case "s":
		return []types.Action{types.CycleSortAction{}}, true
	case "S":
		return []types.Action{types.ReverseSortAction{}}, true
	case ".":
		return []types.Action{types.ToggleHiddenAction{}}, true
	case "a":
		return []types.Action{types.AddQuickAccessAction{}}, true
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return []types.Action{types.QuickAccessAction{Index: int(msg.String()[0] - '1')}}, true
	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case "f":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true
	case "v":
		return []types.Action{types.OpenPagerAction{}}, true
	case "?":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeHelp}}, true
	case "q":
		return []types.Action{types.QuitAction{}}, true
	}

	return nil, false
}

// listKeys handles the cursor keys shared by every list mode
func listKeys(msg tea.KeyMsg) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true
	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true
	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true
	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "g":
		return []types.Action{types.NavigateAction{Direction: "home"}}, true
	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true
	}
	return nil, false
}
