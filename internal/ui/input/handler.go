package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"fastexplorer/internal/ui/input/modes"
	"fastexplorer/internal/ui/input/types"
)

type Handler struct {
	currentMode  types.Mode
	previousMode types.Mode
	modes        map[types.Mode]types.ModeHandler
	textInput    *textinput.Model // Shared text input for text modes
}

func New() *Handler {
	ti := textinput.New()

	h := &Handler{
		currentMode:  types.ModeNormal,
		previousMode: types.ModeNormal,
		textInput:    &ti,
		modes:        make(map[types.Mode]types.ModeHandler),
	}

	// Register all mode handlers
	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeResults] = modes.NewResultsMode()
	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)
	h.modes[types.ModeFilter] = modes.NewFilterMode(h.textInput)
	h.modes[types.ModePrompt] = modes.NewPromptMode()
	h.modes[types.ModeHelp] = modes.NewHelpMode()

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	// If not consumed and we're in text mode, we'll handle it below
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		switch a := action.(type) {
		case types.ChangeModeAction:
			allActions = append(allActions, h.switchTo(a.Mode, a.Data, ctx)...)
			if h.isTextMode(h.currentMode) {
				cmd = textinput.Blink
			}
		case types.PopModeAction:
			allActions = append(allActions, h.switchTo(h.previousMode, "", ctx)...)
		default:
			allActions = append(allActions, action)
		}
	}

	// If we're in a text mode and didn't handle the key, pass it to text input
	if h.isTextMode(h.currentMode) && !consumed {
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		// Always append an update action when in text mode to keep view in sync
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

func (h *Handler) switchTo(mode types.Mode, data string, ctx types.Context) []types.Action {
	var out []types.Action
	if cur := h.modes[h.currentMode]; cur != nil {
		out = append(out, cur.Exit(ctx)...)
	}

	// help and the timeout prompt are overlays and return to whatever was below
	if mode != h.currentMode && !h.isOverlay(h.currentMode) {
		h.previousMode = h.currentMode
	}
	h.currentMode = mode

	if next := h.modes[mode]; next != nil {
		out = append(out, next.Enter(ctx)...)
	}
	if h.isTextMode(mode) && data != "" {
		h.textInput.SetValue(data)
		h.textInput.CursorEnd()
	}
	return out
}

// ChangeMode switches mode from outside a key press, e.g. when a search
// starts or the timeout question arrives.
func (h *Handler) ChangeMode(mode types.Mode, ctx types.Context) []types.Action {
	if mode == h.currentMode {
		return nil
	}
	return h.switchTo(mode, "", ctx)
}

// Overlay reports whether an overlay mode is on top
func (h *Handler) Overlay() bool {
	return h.isOverlay(h.currentMode)
}

// SetUnderlying replaces the mode an overlay returns to
func (h *Handler) SetUnderlying(mode types.Mode) {
	if h.isOverlay(h.currentMode) {
		h.previousMode = mode
	}
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// Prompt returns the label of the current text mode
func (h *Handler) Prompt() string {
	if tm, ok := h.modes[h.currentMode].(interface{ Prompt() string }); ok {
		return tm.Prompt()
	}
	return ""
}

func (h *Handler) TextInput() *textinput.Model {
	if h.isTextMode(h.currentMode) {
		return h.textInput
	}
	return nil
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	switch mode {
	case types.ModeSearch, types.ModeFilter:
		return true
	default:
		return false
	}
}

func (h *Handler) isOverlay(mode types.Mode) bool {
	return mode == types.ModeHelp || mode == types.ModePrompt
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
