package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testBus struct {
	mem         [0x10000]uint8
	irqAsserted bool
}

func (b *testBus) Read(addr uint16) uint8 { return b.mem[addr] }
func (b *testBus) SetIRQLine(asserted bool) { b.irqAsserted = asserted }

func newTestAPU() *APU {
	return &APU{bus: &testBus{}, frameIRQEnable: true}
}

func TestPulseLengthCounterLoadRequiresEnable(t *testing.T) {
	a := newTestAPU()
	a.writePulseTimerHigh(&a.pulse1, 0x08) // length index 1 -> 254
	assert.Zero(t, a.pulse1.lengthCounter, "disabled channel ignores the length load")

	a.channelEnable[0] = true
	a.writePulseTimerHigh(&a.pulse1, 0x08)
	assert.Equal(t, uint8(254), a.pulse1.lengthCounter)
}

func TestPulseMutedBelowMinimumTimer(t *testing.T) {
	a := newTestAPU()
	a.channelEnable[0] = true
	a.writePulseControl(&a.pulse1, 0x0F) // constant volume 15
	a.writePulseTimerLow(&a.pulse1, 0x00)
	a.writePulseTimerHigh(&a.pulse1, 0x00) // timer = 0, below the audible floor
	a.pulse1.lengthCounter = 10
	a.pulse1.sequencerPos = 1 // inside the active part of the 12.5% duty cycle selected above

	assert.Zero(t, a.getPulseOutput(&a.pulse1))
}

func TestTriangleSilentWithoutLinearCounter(t *testing.T) {
	a := newTestAPU()
	a.triangle.lengthCounter = 5
	a.triangle.timer = 100
	a.triangle.linearCounter = 0
	assert.Zero(t, a.getTriangleOutput(&a.triangle))
}

func TestNoiseShiftRegisterFeedbackMode0(t *testing.T) {
	a := newTestAPU()
	a.noise.shiftRegister = 1
	a.noise.periodIndex = 0
	a.noise.timerCounter = 0
	a.stepNoiseTimer(&a.noise)
	// bit0 (1) XOR bit1 (0) = 1, shifted into bit14
	assert.Equal(t, uint16(1<<14), a.noise.shiftRegister)
}

func TestFrameCounterAssertsIRQAt4StepBoundary(t *testing.T) {
	a := newTestAPU()
	a.frameIRQEnable = true
	a.frameCounter = 29829 // one short of the boundary

	a.stepFrameCounter() // crosses into 29830, fires the IRQ and wraps
	assert.True(t, a.frameIRQFlag)
	assert.Equal(t, uint16(0), a.frameCounter)
}

func TestWriteFrameCounterFiveStepModeClocksImmediately(t *testing.T) {
	a := newTestAPU()
	a.channelEnable[2] = true
	a.triangle.lengthCounter = 5
	a.triangle.lengthCounterHalt = false

	a.writeFrameCounter(0x80) // five-step mode, bit 7 set
	assert.True(t, a.fiveStepMode)
	assert.Equal(t, uint8(4), a.triangle.lengthCounter, "five-step write immediately clocks length/sweep once")
}

func TestDMCRefillsBufferFromBus(t *testing.T) {
	bus := &testBus{}
	bus.mem[0xC000] = 0xAA
	a := &APU{bus: bus}
	a.dmc.currentAddress = 0xC000
	a.dmc.bytesRemaining = 1
	a.dmc.sampleBufferBits = 0
	a.dmc.timerCounter = 0
	a.dmc.rateIndex = 0

	a.stepDMCTimer(&a.dmc)
	assert.Equal(t, uint8(0xAA), a.dmc.sampleBuffer)
	assert.Equal(t, uint8(8), a.dmc.sampleBufferBits)
}

func TestMixerSilentWhenAllChannelsZero(t *testing.T) {
	assert.Zero(t, mix(0, 0, 0, 0, 0))
}

func TestMixerNonZeroWithPulseOutput(t *testing.T) {
	assert.NotZero(t, mix(15, 0, 0, 0, 0))
}
