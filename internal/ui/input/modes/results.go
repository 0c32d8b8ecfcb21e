package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"fastexplorer/internal/ui/input/types"
)

// ResultsMode browses search matches. Esc stops a running search first and
// closes the results once the search is over.
type ResultsMode struct{}

func NewResultsMode() *ResultsMode {
	return &ResultsMode{}
}

func (m *ResultsMode) Name() string {
	return "results"
}

func (m *ResultsMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ResultsMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ResultsMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if actions, ok := listKeys(msg); ok {
		return actions, true
	}

	switch msg.String() {
	case "enter":
		if ctx.TotalItems() == 0 {
			return nil, true
		}
		return []types.Action{types.OpenAction{}}, true
	case "esc":
		if ctx.Searching() {
			return []types.Action{types.StopSearchAction{}}, true
		}
		return []types.Action{
			types.CloseResultsAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case "v":
		return []types.Action{types.OpenPagerAction{}}, true
	case "?":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeHelp}}, true
	case "q":
		return []types.Action{types.QuitAction{}}, true
	}
	return nil, false
}
