package ebitenwin

import (
	"strings"

	"github.com/gogpu/sketch"
	"github.com/hajimehoshi/ebiten/v2"
)

var namedKeys = map[ebiten.Key]sketch.Key{
	ebiten.KeyArrowLeft:    sketch.KeyLeft,
	ebiten.KeyArrowRight:   sketch.KeyRight,
	ebiten.KeyArrowUp:      sketch.KeyUp,
	ebiten.KeyArrowDown:    sketch.KeyDown,
	ebiten.KeyEnter:        sketch.KeyEnter,
	ebiten.KeyNumpadEnter:  sketch.KeyEnter,
	ebiten.KeyEscape:       sketch.KeyEscape,
	ebiten.KeyBackspace:    sketch.KeyBackspace,
	ebiten.KeyDelete:       sketch.KeyDelete,
	ebiten.KeyTab:          sketch.KeyTab,
	ebiten.KeySpace:        sketch.KeySpace,
	ebiten.KeyHome:         sketch.KeyHome,
	ebiten.KeyEnd:          sketch.KeyEnd,
	ebiten.KeyShiftLeft:    sketch.KeyShift,
	ebiten.KeyShiftRight:   sketch.KeyShift,
	ebiten.KeyControlLeft:  sketch.KeyControl,
	ebiten.KeyControlRight: sketch.KeyControl,
	ebiten.KeyAltLeft:      sketch.KeyAlt,
	ebiten.KeyAltRight:     sketch.KeyAlt,
	ebiten.KeyMetaLeft:     sketch.KeySuper,
	ebiten.KeyMetaRight:    sketch.KeySuper,
	ebiten.KeyComma:        ",",
	ebiten.KeyPeriod:       ".",
	ebiten.KeySlash:        "/",
	ebiten.KeyMinus:        "-",
	ebiten.KeyEqual:        "=",
	ebiten.KeySemicolon:    ";",
	ebiten.KeyQuote:        "'",
	ebiten.KeyBackslash:    "\\",
	ebiten.KeyBracketLeft:  "[",
	ebiten.KeyBracketRight: "]",
	ebiten.KeyBackquote:    "`",
}

// key maps an ebiten key. Letters and digits map to their lowercase
// character.
func key(k ebiten.Key) sketch.Key {
	if named, ok := namedKeys[k]; ok {
		return named
	}
	name := k.String()
	if d, ok := strings.CutPrefix(name, "Digit"); ok && len(d) == 1 {
		return sketch.Key(d)
	}
	if len(name) == 1 {
		return sketch.Key(strings.ToLower(name))
	}
	return sketch.KeyUnknown
}
