// Package console wires the CPU, PPU, APU, mapper and controller
// ports together into the memory-mapped machine the 6502 sees, and
// drives the ebiten game loop that ticks it forward in real time.
package console

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/mwbrasher/gones8/apu"
	"github.com/mwbrasher/gones8/cpu"
	"github.com/mwbrasher/gones8/mappers"
	"github.com/mwbrasher/gones8/ppu"
)

const (
	NES_BASE_MEMORY = 0x800 // 2KB built in RAM

	MAX_ADDRESS          = math.MaxUint16
	MEM_SIZE             = MAX_ADDRESS + 1
	MAX_NES_BASE_RAM     = 0x1FFF
	MAX_PPU_REG_MIRRORED = 0x3FFF
	MAX_IO_REG           = 0x4020
	MAX_SRAM             = 0x7FFF
)

const (
	OAMDMA    = 0x4014
	JOYPAD1   = 0x4016
	JOYPAD2   = 0x4017
	APU_FIRST = 0x4000
	APU_LAST  = 0x4013
)

// Console is the NES memory bus: every CPU read/write passes through
// here and is routed to RAM, the PPU registers, the APU, the
// controller ports or the cartridge mapper.
type Console struct {
	cpu      *cpu.CPU
	ppu      *ppu.PPU
	apu      *apu.APU
	mapper   mappers.Mapper
	ram      []uint8
	pad1     controller
	pad2     controller
	ticks    uint64
	openBus  uint8 // last byte driven onto the CPU data bus, returned by unmapped reads
	dmaOddCy bool  // OAM DMA takes one extra cycle on an odd CPU cycle
	muted    bool
}

func New(m mappers.Mapper) *Console {
	c := &Console{mapper: m, ram: make([]uint8, NES_BASE_MEMORY)}
	c.pad1 = newController(newEbitenInput())
	c.pad2 = newController(newEbitenInput())

	c.cpu = cpu.New(c)
	c.ppu = ppu.New(c)
	c.ppu.SetMirrorMode(m.MirroringMode())
	c.apu = apu.New(c)

	w, h := c.ppu.GetResolution()
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("gones8")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return c
}

// Mute disables APU mixer output, e.g. when run headless under test
// or with sound explicitly disabled on the command line.
func (c *Console) Mute(m bool) {
	c.muted = m
	c.apu.SetMuted(m)
}

func (c *Console) MirrorMode() uint8 {
	return c.mapper.MirroringMode()
}

// Layout is part of the ebiten.Game interface; returning the fixed
// NES resolution forces ebiten to do the upscaling.
func (c *Console) Layout(w, h int) (int, int) {
	return c.ppu.GetResolution()
}

// Draw blits the PPU's current frame onto the ebiten screen.
func (c *Console) Draw(screen *ebiten.Image) {
	screen.WritePixels(c.ppu.Framebuffer())
}

// Update is called by ebiten roughly every 1/60s. The emulation
// itself is driven by Run in its own goroutine, so this is a no-op
// required only to satisfy ebiten.Game.
func (c *Console) Update() error {
	return nil
}

// TriggerNMI is used by the PPU to signal the CPU that it has
// entered vertical blank with NMI generation enabled.
func (c *Console) TriggerNMI() {
	c.cpu.TriggerNMI()
}

// ChrRead/ChrWrite give the PPU access to CHR-ROM/RAM through the
// active mapper.
func (c *Console) ChrRead(addr uint16) uint8       { return c.mapper.ChrRead(addr) }
func (c *Console) ChrWrite(addr uint16, val uint8) { c.mapper.ChrWrite(addr, val) }

// SetIRQLine lets the APU's frame counter and DMC channel assert the
// CPU's level-triggered IRQ line.
func (c *Console) SetIRQLine(asserted bool) {
	c.cpu.SetIRQLine(asserted)
}

func (c *Console) Read(addr uint16) uint8 {
	var val uint8

	switch {
	case addr <= MAX_NES_BASE_RAM:
		val = c.ram[addr&0x07FF]
	case addr <= MAX_PPU_REG_MIRRORED:
		val = c.ppu.ReadReg(ppu.PPUCTRL + addr&0x0007)
	case addr == JOYPAD1:
		val = c.pad1.read()
	case addr == JOYPAD2:
		val = c.pad2.read()
	case addr >= APU_FIRST && addr <= APU_LAST, addr == 0x4015:
		val = c.apu.ReadReg(addr)
	case addr < MAX_IO_REG:
		val = c.openBus
	case addr <= MAX_SRAM:
		val = c.openBus
	default:
		val = c.mapper.PrgRead(addr - 0x8000)
	}

	c.openBus = val
	return val
}

func (c *Console) ClearMem() {
	c.ram = make([]uint8, len(c.ram))
}

func (c *Console) Write(addr uint16, val uint8) {
	c.openBus = val

	switch {
	case addr <= MAX_NES_BASE_RAM:
		c.ram[addr&0x07FF] = val
	case addr <= MAX_PPU_REG_MIRRORED:
		c.ppu.WriteReg(ppu.PPUCTRL+addr&0x0007, val)
	case addr == OAMDMA:
		c.runOAMDMA(val)
	case addr == JOYPAD1:
		// Bit 0 strobes both controller shift registers at once;
		// JOYPAD2 ($4017) is read-only from the controller side.
		c.pad1.write(val)
		c.pad2.write(val)
	case addr >= APU_FIRST && addr <= APU_LAST, addr == 0x4015, addr == 0x4017:
		c.apu.WriteReg(addr, val)
	case addr < MAX_IO_REG:
		// unmapped I/O
	case addr <= MAX_SRAM:
		// cartridge SRAM ($6000-$7FFF) is not modelled
	default:
		c.mapper.PrgWrite(addr-0x8000, val)
	}
}

// runOAMDMA copies 256 bytes starting at val<<8 into OAM, stalling
// the CPU for 513 cycles (514 if triggered on an odd CPU cycle) the
// way real OAM DMA does.
// https://www.nesdev.org/wiki/DMA#OAM_DMA
func (c *Console) runOAMDMA(val uint8) {
	base := uint16(val) << 8
	for addr := base; addr < base+256; addr++ {
		c.ppu.WriteOAMByte(c.Read(addr))
	}

	stall := 513
	if c.dmaOddCy {
		stall++
	}
	c.cpu.StallDMA(stall)
}

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Printf(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}

// Run ticks the console forward at the NES's native 3 PPU-cycles per
// CPU-cycle ratio until ctx is cancelled.
func (c *Console) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			c.ppu.Tick()
			if c.ticks%3 == 0 {
				c.dmaOddCy = c.ticks/3%2 == 1
				c.cpu.Tick()
				c.apu.Tick()
			}
			c.ticks++
		}
	}
}

// BIOS is a small text-mode debugger, grounded on the teacher's own
// monitor command set, that lets a developer step instructions,
// inspect memory and the stack, set breakpoints, and run to the next
// breakpoint.
func (c *Console) BIOS(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)

	breaks := make(map[uint16]struct{})

	for {
		fmt.Printf("%s\n\n", c.cpu)
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - clear breakpoints")
		fmt.Println("(R)un - run to completion")
		fmt.Println("(S)tep - step the cpu one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)emory - display a memory range")
		fmt.Println("S(t)ack - show the top of the stack")
		fmt.Println("PP(U) - show PPU status")
		fmt.Println("(Q)uit - shut down")
		fmt.Printf("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'e', 'E':
			c.cpu.Reset()
		case 'q', 'Q':
			return
		case 'r', 'R':
			cctx, cancel := context.WithCancel(ctx)
			go func(ctx context.Context) {
				select {
				case <-sigQuit:
					cancel()
				case <-ctx.Done():
				}
			}(cctx)
			c.runToBreak(cctx, breaks)
		case 's', 'S':
			c.stepInstruction()
		case 't', 'T':
			fmt.Println()
			for i := 0; i < 3; i++ {
				addr := 0x0100 + uint16(c.cpu.SP+1+uint8(i))
				fmt.Printf("0x%04x: 0x%02x ", addr, c.Read(addr))
			}
			fmt.Printf("\n\n")
		case 'u', 'U':
			fmt.Printf("%+v\n", c.ppu)
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			x := 1
			for i := low; ; i++ {
				fmt.Printf("0x%04x: 0x%02x ", i, c.Read(i))
				if x%5 == 0 {
					fmt.Println()
				}
				if i == high || i == math.MaxUint16 {
					break
				}
				x++
			}
			fmt.Printf("\n\n")
		}
	}
}

// stepInstruction ticks the console until the CPU finishes the
// instruction it is currently mid-way through (or starts and
// completes exactly one, if it was idle).
func (c *Console) stepInstruction() {
	advance := func() {
		c.ppu.Tick()
		if c.ticks%3 == 0 {
			c.cpu.Tick()
			c.apu.Tick()
		}
		c.ticks++
	}

	for c.cpu.Idle() {
		advance()
	}
	for !c.cpu.Idle() {
		advance()
	}
}

// runToBreak is Run with breakpoint support for the debugger's (R)un command.
func (c *Console) runToBreak(ctx context.Context, breaks map[uint16]struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			c.ppu.Tick()
			if c.ticks%3 == 0 {
				c.cpu.Tick()
				c.apu.Tick()
				if _, hit := breaks[c.cpu.PC]; hit {
					return
				}
			}
			c.ticks++
		}
	}
}
