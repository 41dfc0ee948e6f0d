package views

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/sandeepkv93/mindr/internal/config"
)

var (
	outlineOn  = termenv.CSI + termenv.ANSIWhite.Sequence(true) + "m" + termenv.CSI + termenv.ANSIBlack.Sequence(false) + "m"
	outlineOff = ansi.SGR(ansi.AttrDefaultBackgroundColor) + ansi.SGR(ansi.AttrDefaultForegroundColor)

	strikeOn  = ansi.SGR(ansi.AttrStrikethrough)
	strikeOff = ansi.SGR(ansi.AttrNoStrikethrough)
	boldOn    = ansi.SGR(ansi.AttrBold)
	boldOff   = ansi.SGR(ansi.AttrNormalIntensity)
)

// Style renders text for one list or menu item. Text is expected to carry a
// one-character wrapper at each end (" TODO ", " · milk "): strike-through
// covers only the interior and Brackets/Tilde replace the wrappers. Texts
// shorter than two runes have no wrapper, so the markers surround them.
func Style(text string, sel config.Selection, selected, struck bool, spacing string) string {
	runes := []rune(text)
	first, interior, last := splitWrapper(runes)

	if struck && interior != "" {
		interior = strikeOn + interior + strikeOff
	}
	if !selected {
		return first + interior + last + spacing
	}

	switch sel {
	case config.Tilde:
		if len(runes) < 2 {
			return "~" + text + " " + spacing
		}
		return "~" + interior + " " + spacing
	case config.Outline:
		return outlineOn + first + interior + last + outlineOff + spacing
	case config.Bold:
		return boldOn + first + interior + last + boldOff + spacing
	default:
		if len(runes) < 2 {
			return "[" + text + "]" + spacing
		}
		return "[" + interior + "]" + spacing
	}
}

func splitWrapper(runes []rune) (first, interior, last string) {
	if len(runes) < 2 {
		return "", string(runes), ""
	}
	return string(runes[0]), string(runes[1 : len(runes)-1]), string(runes[len(runes)-1])
}
