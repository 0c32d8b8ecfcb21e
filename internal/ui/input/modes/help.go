package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"fastexplorer/internal/ui/input/types"
)

type HelpMode struct{}

func NewHelpMode() *HelpMode {
	return &HelpMode{}
}

func (m *HelpMode) Name() string {
	return "help"
}

func (m *HelpMode) Enter(ctx types.Context) []types.Action {
	return []types.Action{types.ScrollHelpAction{Reset: true}}
}

func (m *HelpMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *HelpMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "j", "down":
		return []types.Action{types.ScrollHelpAction{Delta: 1}}, true
	case "k", "up":
		return []types.Action{types.ScrollHelpAction{Delta: -1}}, true
	case "?", "esc", "q":
		return []types.Action{types.PopModeAction{}}, true
	}
	return nil, true
}
