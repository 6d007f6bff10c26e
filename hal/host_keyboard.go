//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hostKeyboard holds the shield buttons down while their keys are held.
type hostKeyboard struct {
	sim   *VirtualShield
	binds []keyBind
}

type keyBind struct {
	keys []ebiten.Key
	pin  int
}

func newHostKeyboard(sim *VirtualShield, k Keys) *hostKeyboard {
	kb := &hostKeyboard{sim: sim}
	add := func(pin int, keys ...ebiten.Key) {
		if sim.Button(pin) == nil {
			return
		}
		kb.binds = append(kb.binds, keyBind{keys: keys, pin: pin})
	}
	add(k.Up, ebiten.KeyArrowUp, ebiten.KeyW)
	add(k.Down, ebiten.KeyArrowDown, ebiten.KeyS)
	add(k.Left, ebiten.KeyArrowLeft, ebiten.KeyA)
	add(k.Right, ebiten.KeyArrowRight, ebiten.KeyD)
	add(k.Fire, ebiten.KeySpace, ebiten.KeyEnter)
	return kb
}

func (k *hostKeyboard) poll() {
	for _, b := range k.binds {
		down := false
		changed := false
		for _, key := range b.keys {
			if ebiten.IsKeyPressed(key) {
				down = true
			}
			if inpututil.IsKeyJustPressed(key) || inpututil.IsKeyJustReleased(key) {
				changed = true
			}
		}
		if changed {
			k.sim.Button(b.pin).Set(down)
		}
	}
}
