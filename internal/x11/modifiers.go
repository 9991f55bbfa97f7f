package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// ModifierMasks holds the core protocol state bits for each logical modifier.
// Alt and Super move between Mod1..Mod5 depending on the keyboard mapping.
type ModifierMasks struct {
	Control uint16
	Shift   uint16
	Alt     uint16
	Super   uint16
}

// DefaultModifierMasks is the mapping used by nearly every X server.
var DefaultModifierMasks = ModifierMasks{
	Control: xproto.ModMaskControl,
	Shift:   xproto.ModMaskShift,
	Alt:     xproto.ModMask1,
	Super:   xproto.ModMask4,
}

func resolveModifierMasks(xu *xgbutil.XUtil) ModifierMasks {
	masks := DefaultModifierMasks
	if m := modMaskForKeysym(xu, "Alt_L"); m != 0 {
		masks.Alt = m
	}
	if m := modMaskForKeysym(xu, "Super_L"); m != 0 {
		masks.Super = m
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
