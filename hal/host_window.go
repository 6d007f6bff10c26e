//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"
	"image/color"

	"aberled/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Window layout. The LED view shows the matrix as 8x8 round LEDs next to
// the power LED; the panel view shows the framebuffer as is.
const (
	windowScale = 3
	ledPitch    = 16
	ledRadius   = 6
)

var errWindowClosed = errors.New("hal: window closed")

// RunWindow starts a desktop window that shows the shield or the panel and
// maps the keyboard onto the shield buttons. It blocks until the window
// closes or run returns.
func RunWindow(run func(context.Context, HAL) error, keys Keys) error {
	h := newHostHAL()
	defer h.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &hostGame{h: h, kbd: newHostKeyboard(h.sim, keys), done: make(chan error, 1)}
	go func() {
		g.done <- run(ctx, h)
	}()

	ebiten.SetWindowTitle("AberLED (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(hostPanelWidth*windowScale, hostPanelHeight*windowScale)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, errWindowClosed) {
		return g.result
	}
	return err
}

type hostGame struct {
	h   *hostHAL
	kbd *hostKeyboard

	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte

	done   chan error
	result error
}

func (g *hostGame) Update() error {
	g.kbd.poll()
	select {
	case err := <-g.done:
		g.result = err
		return errWindowClosed
	default:
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.h.sim.Active() {
		g.drawShield(screen)
		return
	}
	g.drawPanel(screen)
}

func (g *hostGame) drawShield(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF})
	x0 := float32(hostPanelWidth-8*ledPitch) / 2
	y0 := float32(ledPitch)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			green, red := g.h.sim.Pixel(x, y)
			c := color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
			if red {
				c.R = 0xFF
			}
			if green {
				c.G = 0xD0
			}
			cx := x0 + float32(x*ledPitch+ledPitch/2)
			cy := y0 + float32(y*ledPitch+ledPitch/2)
			vector.DrawFilledCircle(screen, cx, cy, ledRadius, c, true)
		}
	}

	power := color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
	if g.h.led.isOn() {
		power = color.RGBA{G: 0xFF, A: 0xFF}
	}
	vector.DrawFilledCircle(screen, float32(hostPanelWidth-ledPitch), float32(hostPanelHeight-ledPitch), 3, power, true)
}

func (g *hostGame) drawPanel(screen *ebiten.Image) {
	fb := g.h.panel.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return hostPanelWidth, hostPanelHeight
}
