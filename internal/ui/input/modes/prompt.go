package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"fastexplorer/internal/ui/input/types"
)

// PromptMode asks whether a long running search should go on
type PromptMode struct{}

func NewPromptMode() *PromptMode {
	return &PromptMode{}
}

func (m *PromptMode) Name() string {
	return "timeout"
}

func (m *PromptMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *PromptMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *PromptMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{
			types.AnswerTimeoutAction{Continue: false},
			types.QuitAction{Force: true},
		}, true
	case "y", "Y", "enter":
		return []types.Action{
			types.AnswerTimeoutAction{Continue: true},
			types.PopModeAction{},
		}, true
	case "n", "N", "esc":
		return []types.Action{
			types.AnswerTimeoutAction{Continue: false},
			types.PopModeAction{},
		}, true
	}

	// the question must be answered first
	return nil, true
}
