package console

import "github.com/hajimehoshi/ebiten/v2"

// Button identifies one of the eight lines a standard NES controller's
// 4021 shift register reports, in the bit order its serial read
// protocol uses: https://www.nesdev.org/wiki/Standard_controller
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	buttonCount
)

// inputSource decouples the controller's shift-register model from any
// one windowing library, the same seam `ppu.Bus`/`apu.Bus` give the PPU
// and APU over the rest of the console.
type inputSource interface {
	pressed(b Button) bool
}

// ebitenInput is the default inputSource, backed by ebiten's keyboard
// state. The mapping lives here rather than on controller so a future
// alternate input source (replay file, network pad) only has to
// satisfy inputSource, not know about ebiten at all.
type ebitenInput struct {
	keymap [buttonCount]ebiten.Key
}

func newEbitenInput() ebitenInput {
	return ebitenInput{keymap: [buttonCount]ebiten.Key{
		ButtonA:      ebiten.KeyA,
		ButtonB:      ebiten.KeyB,
		ButtonSelect: ebiten.KeySpace,
		ButtonStart:  ebiten.KeyEnter,
		ButtonUp:     ebiten.KeyUp,
		ButtonDown:   ebiten.KeyDown,
		ButtonLeft:   ebiten.KeyLeft,
		ButtonRight:  ebiten.KeyRight,
	}}
}

func (e ebitenInput) pressed(b Button) bool {
	return ebiten.IsKeyPressed(e.keymap[b])
}

// controller models one NES controller port: a single-bit strobe
// latch in front of an 8-bit parallel-in/serial-out shift register.
// Writing 1 to $4016 holds the register loaded with the live button
// state; writing 0 freezes a snapshot and arms it for one bit per read.
type controller struct {
	input   inputSource
	strobe  bool
	buttons uint8
	idx     uint8
}

func newController(input inputSource) controller {
	return controller{input: input}
}

func (c *controller) write(val uint8) {
	switch val & 0x01 {
	case 0:
		c.strobe = false
		c.buttons = 0
		c.poll()

	case 1:
		c.strobe = true
		c.idx = 0
	}
}

func (c *controller) read() uint8 {
	if c.strobe {
		c.buttons = 0
		c.poll()
		return c.buttons & 1
	}
	if c.idx >= uint8(buttonCount) {
		return 1
	}

	ret := (c.buttons >> c.idx) & 1
	c.idx++
	return ret
}

func (c *controller) poll() {
	for b := Button(0); b < buttonCount; b++ {
		if c.input.pressed(b) {
			c.buttons |= 1 << uint8(b)
		}
	}
}
