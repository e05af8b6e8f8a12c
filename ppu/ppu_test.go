package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testBus struct {
	chr          [0x2000]uint8
	nmiTriggered bool
}

func (tb *testBus) ChrRead(addr uint16) uint8        { return tb.chr[addr] }
func (tb *testBus) ChrWrite(addr uint16, val uint8) { tb.chr[addr] = val }
func (tb *testBus) TriggerNMI()                     { tb.nmiTriggered = true }

func TestWriteRegPPUCTRLSetsNametableBits(t *testing.T) {
	p := New(&testBus{})
	p.WriteReg(PPUCTRL, 0b01010111)
	assert.Equal(t, uint16(0b11_00000000_00), p.t.data&0x0C00)
}

func TestWriteRegPPUSCROLL(t *testing.T) {
	p := New(&testBus{})

	p.WriteReg(PPUSCROLL, 0b01101010) // coarse X = 0b01101 = 13, fine X = 0b010 = 2
	assert.True(t, p.w)
	assert.Equal(t, uint16(13), p.t.coarseX())
	assert.Equal(t, uint8(2), p.x)

	p.WriteReg(PPUSCROLL, 0b01011011) // fine Y = 0b011 = 3, coarse Y = 0b01011 = 11
	assert.False(t, p.w)
	assert.Equal(t, uint16(11), p.t.coarseY())
	assert.Equal(t, uint16(3), p.t.fineY())
}

func TestWriteRegPPUADDRLoadsV(t *testing.T) {
	p := New(&testBus{})

	p.WriteReg(PPUADDR, 0x21) // high byte, masked to 6 bits
	assert.True(t, p.w)
	p.WriteReg(PPUADDR, 0x08) // low byte, t copied into v
	assert.False(t, p.w)
	assert.Equal(t, uint16(0x2108), p.v.data)
	assert.Equal(t, uint16(0x2108), p.t.data)
}

func TestPPUDATAReadIsBuffered(t *testing.T) {
	bus := &testBus{}
	p := New(bus)
	p.vram[0] = 0x42 // nametable $2000 maps into vram[0]

	p.WriteReg(PPUADDR, 0x20)
	p.WriteReg(PPUADDR, 0x00)

	first := p.ReadReg(PPUDATA)
	assert.Equal(t, uint8(0), first, "first read returns the stale buffer, not the fresh byte")

	second := p.ReadReg(PPUDATA)
	assert.Equal(t, uint8(0x42), second)
}

func TestPPUDATAWriteIncrementsByMode(t *testing.T) {
	p := New(&testBus{})
	p.WriteReg(PPUADDR, 0x20)
	p.WriteReg(PPUADDR, 0x00)
	p.WriteReg(PPUDATA, 0x11)
	assert.Equal(t, uint16(0x2001), p.v.data)

	p.ctrl |= CTRL_VRAM_ADD_INCREMENT
	p.WriteReg(PPUDATA, 0x22)
	assert.Equal(t, uint16(0x2021), p.v.data)
}

func TestReadPPUSTATUSClearsVBlankAndLatch(t *testing.T) {
	p := New(&testBus{})
	p.status |= STATUS_VERTICAL_BLANK
	p.w = true

	got := p.ReadReg(PPUSTATUS)
	assert.NotZero(t, got&STATUS_VERTICAL_BLANK)
	assert.False(t, p.w)
	assert.Zero(t, p.status&STATUS_VERTICAL_BLANK)
}

func TestVBlankSetAndNMIFiredAtScanline241Dot1(t *testing.T) {
	bus := &testBus{}
	p := New(bus)
	p.ctrl |= CTRL_GENERATE_NMI

	for i := 0; i < dotsPerScanline*242+2; i++ {
		p.Tick()
	}

	assert.True(t, bus.nmiTriggered)
	assert.NotZero(t, p.status&STATUS_VERTICAL_BLANK)
}

func TestVBlankClearedAtPreRenderDot1(t *testing.T) {
	p := New(&testBus{})
	p.status |= STATUS_VERTICAL_BLANK | STATUS_SPRITE_0_HIT | STATUS_SPRITE_OVERFLOW
	p.scanline = preRenderLine
	p.dot = 0

	p.Tick() // renders dot 0, advances to dot 1
	p.Tick() // renders dot 1, which runs the status clear

	assert.Zero(t, p.status&(STATUS_VERTICAL_BLANK|STATUS_SPRITE_0_HIT|STATUS_SPRITE_OVERFLOW))
}

func TestNametableMirroringHorizontal(t *testing.T) {
	p := New(&testBus{})
	p.SetMirrorMode(MIRROR_HORIZONTAL)
	p.write(NAMETABLE_0, 0x7A)
	assert.Equal(t, uint8(0x7A), p.read(NAMETABLE_1)) // $2000 and $2400 share the same physical page
}

func TestNametableMirroringVertical(t *testing.T) {
	p := New(&testBus{})
	p.SetMirrorMode(MIRROR_VERTICAL)
	p.write(NAMETABLE_0, 0x5B)
	assert.Equal(t, uint8(0x5B), p.read(NAMETABLE_2)) // $2000 and $2800 share the same physical page
}

func TestPaletteMirrorBackdropEntries(t *testing.T) {
	p := New(&testBus{})
	p.write(0x3F00, 0x0F)
	assert.Equal(t, uint8(0x0F), p.read(0x3F10)) // sprite backdrop mirrors the universal background entry
}
