package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"fastexplorer/internal/ui/input/types"
)

// FilterMode narrows the listing while typing
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, types.ModeNormal, "filter", "Filter: ", ti),
	}
}
