// Package apu implements the NES Audio Processing Unit: two pulse
// channels, a triangle channel, a noise channel, a delta-modulation
// (DMC) sample channel, a frame sequencer that clocks their envelope,
// sweep and length units, and the fixed non-linear mixer that combines
// them into a single sample stream played back through ebiten/audio.
package apu

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 44100
const cpuFrequency = 1789773.0 // NTSC 6502 clock, Hz

// Bus is the APU's view of the rest of the console: DMC sample
// playback reads program data directly off the CPU bus, and the
// frame IRQ / DMC IRQ assert the CPU's level-triggered IRQ line.
type Bus interface {
	Read(addr uint16) uint8
	SetIRQLine(asserted bool)
}

// APU holds all five channels, the frame sequencer and the mixer's
// sample-rate conversion state.
type APU struct {
	bus Bus

	pulse1   pulseChannel
	pulse2   pulseChannel
	triangle triangleChannel
	noise    noiseChannel
	dmc      dmcChannel

	frameCounter     uint16
	fiveStepMode     bool
	frameIRQEnable   bool
	frameIRQFlag     bool
	dmcIRQFlag       bool
	channelEnable    [5]bool
	halfClock        bool // pulse/noise timers tick on alternating CPU cycles

	cycleAccumulator float64
	muted            bool

	player      *audio.Player
	audioStream *streamBuffer
}

func New(bus Bus) *APU {
	a := &APU{
		bus:            bus,
		frameIRQEnable: true,
	}
	a.noise.shiftRegister = 1

	ctx := audio.CurrentContext()
	if ctx != nil {
		a.audioStream = newStreamBuffer(sampleRate)
		if p, err := ctx.NewPlayer(a.audioStream); err == nil {
			a.player = p
			a.player.Play()
		}
	}

	return a
}

func (a *APU) SetMuted(m bool) {
	a.muted = m
	if a.player != nil {
		a.player.SetVolume(0)
		if !m {
			a.player.SetVolume(1)
		}
	}
}

// Tick advances the APU by exactly one CPU cycle.
func (a *APU) Tick() {
	a.halfClock = !a.halfClock

	a.stepFrameCounter()
	a.stepTriangleTimer(&a.triangle)
	if a.halfClock {
		a.stepPulseTimer(&a.pulse1)
		a.stepPulseTimer(&a.pulse2)
		a.stepNoiseTimer(&a.noise)
		a.stepDMCTimer(&a.dmc)
	}

	a.generateSample()

	a.bus.SetIRQLine(a.frameIRQFlag || a.dmc.irqFlag)
}

func (a *APU) stepFrameCounter() {
	a.frameCounter++

	if a.fiveStepMode {
		switch a.frameCounter {
		case 7457:
			a.clockEnvelopeAndLinear()
		case 14913:
			a.clockEnvelopeAndLinear()
			a.clockLengthAndSweep()
		case 22371:
			a.clockEnvelopeAndLinear()
		case 37281:
			a.clockEnvelopeAndLinear()
			a.clockLengthAndSweep()
			a.frameCounter = 0
		}
		return
	}

	switch a.frameCounter {
	case 7457:
		a.clockEnvelopeAndLinear()
	case 14913:
		a.clockEnvelopeAndLinear()
		a.clockLengthAndSweep()
	case 22371:
		a.clockEnvelopeAndLinear()
	case 29829:
		a.clockEnvelopeAndLinear()
		a.clockLengthAndSweep()
	case 29830:
		if a.frameIRQEnable {
			a.frameIRQFlag = true
		}
		a.frameCounter = 0
	}
}

func (a *APU) clockEnvelopeAndLinear() {
	a.clockPulseEnvelope(&a.pulse1)
	a.clockPulseEnvelope(&a.pulse2)
	a.clockNoiseEnvelope(&a.noise)
	a.clockTriangleLinear(&a.triangle)
}

func (a *APU) clockLengthAndSweep() {
	a.clockPulseLength(&a.pulse1)
	a.clockPulseSweep(&a.pulse1, true)
	a.clockPulseLength(&a.pulse2)
	a.clockPulseSweep(&a.pulse2, false)
	a.clockTriangleLength(&a.triangle)
	a.clockNoiseLength(&a.noise)
}

func (a *APU) generateSample() {
	a.cycleAccumulator += float64(sampleRate) / cpuFrequency
	if a.cycleAccumulator < 1.0 {
		return
	}
	a.cycleAccumulator -= 1.0

	if a.muted || a.audioStream == nil {
		return
	}

	p1 := a.getPulseOutput(&a.pulse1)
	p2 := a.getPulseOutput(&a.pulse2)
	tri := a.getTriangleOutput(&a.triangle)
	noi := a.getNoiseOutput(&a.noise)
	dmc := a.dmc.outputLevel

	a.audioStream.push(mix(p1, p2, tri, noi, dmc))
}

// mix applies the NES's fixed non-linear mixer formula.
// https://www.nesdev.org/wiki/APU_Mixer
func mix(pulse1, pulse2, triangle, noise, dmc uint8) float32 {
	pulseSum := float64(pulse1) + float64(pulse2)
	var pulseOut float64
	if pulseSum != 0 {
		pulseOut = 95.88 / (8128.0/pulseSum + 100.0)
	}

	tndSum := float64(triangle)/8227.0 + float64(noise)/12241.0 + float64(dmc)/22638.0
	var tndOut float64
	if tndSum != 0 {
		tndOut = 159.79 / (1.0/tndSum + 100.0)
	}

	return float32(pulseOut + tndOut)
}

func (a *APU) ReadReg(addr uint16) uint8 {
	if addr == 0x4015 {
		return a.readStatus()
	}
	return 0
}

func (a *APU) WriteReg(addr uint16, val uint8) {
	switch addr {
	case 0x4000:
		a.writePulseControl(&a.pulse1, val)
	case 0x4001:
		a.writePulseSweep(&a.pulse1, val)
	case 0x4002:
		a.writePulseTimerLow(&a.pulse1, val)
	case 0x4003:
		a.writePulseTimerHigh(&a.pulse1, val)
	case 0x4004:
		a.writePulseControl(&a.pulse2, val)
	case 0x4005:
		a.writePulseSweep(&a.pulse2, val)
	case 0x4006:
		a.writePulseTimerLow(&a.pulse2, val)
	case 0x4007:
		a.writePulseTimerHigh(&a.pulse2, val)
	case 0x4008:
		a.writeTriangleControl(val)
	case 0x400A:
		a.writeTriangleTimerLow(val)
	case 0x400B:
		a.writeTriangleTimerHigh(val)
	case 0x400C:
		a.writeNoiseControl(val)
	case 0x400E:
		a.writeNoisePeriod(val)
	case 0x400F:
		a.writeNoiseLength(val)
	case 0x4010:
		a.writeDMCControl(val)
	case 0x4011:
		a.writeDMCDirectLoad(val)
	case 0x4012:
		a.writeDMCSampleAddress(val)
	case 0x4013:
		a.writeDMCSampleLength(val)
	case 0x4015:
		a.writeChannelEnable(val)
	case 0x4017:
		a.writeFrameCounter(val)
	}
}

func (a *APU) readStatus() uint8 {
	var status uint8
	if a.pulse1.lengthCounter > 0 {
		status |= 0x01
	}
	if a.pulse2.lengthCounter > 0 {
		status |= 0x02
	}
	if a.triangle.lengthCounter > 0 {
		status |= 0x04
	}
	if a.noise.lengthCounter > 0 {
		status |= 0x08
	}
	if a.dmc.bytesRemaining > 0 {
		status |= 0x10
	}
	if a.frameIRQFlag {
		status |= 0x40
	}
	if a.dmc.irqFlag {
		status |= 0x80
	}
	a.frameIRQFlag = false
	return status
}

func (a *APU) writeChannelEnable(val uint8) {
	a.channelEnable[0] = val&0x01 != 0
	a.channelEnable[1] = val&0x02 != 0
	a.channelEnable[2] = val&0x04 != 0
	a.channelEnable[3] = val&0x08 != 0
	a.channelEnable[4] = val&0x10 != 0

	if !a.channelEnable[0] {
		a.pulse1.lengthCounter = 0
	}
	if !a.channelEnable[1] {
		a.pulse2.lengthCounter = 0
	}
	if !a.channelEnable[2] {
		a.triangle.lengthCounter = 0
	}
	if !a.channelEnable[3] {
		a.noise.lengthCounter = 0
	}
	if !a.channelEnable[4] {
		a.dmc.bytesRemaining = 0
	} else if a.dmc.bytesRemaining == 0 {
		a.dmc.currentAddress = a.dmc.sampleAddress
		a.dmc.bytesRemaining = a.dmc.sampleLength
	}
	a.dmc.irqFlag = false
}

func (a *APU) writeFrameCounter(val uint8) {
	a.fiveStepMode = val&0x80 != 0
	a.frameIRQEnable = val&0x40 == 0
	if !a.frameIRQEnable {
		a.frameIRQFlag = false
	}
	a.frameCounter = 0

	if a.fiveStepMode {
		a.clockEnvelopeAndLinear()
		a.clockLengthAndSweep()
	}
}
