package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwbrasher/gones8/mappers"
)

func newTestConsole() *Console {
	return &Console{mapper: mappers.Dummy, ram: make([]uint8, NES_BASE_MEMORY)}
}

func TestWriteRAMIsMirroredOnRead(t *testing.T) {
	c := newTestConsole()

	c.Write(0x0003, 0x42)
	assert.Equal(t, uint8(0x42), c.Read(0x0803))
	assert.Equal(t, uint8(0x42), c.Read(0x1003))
}

func TestOpenBusLatchTracksLastValue(t *testing.T) {
	c := newTestConsole()

	c.Write(0x5000, 0x99) // unmapped I/O region, falls through to openBus
	assert.Equal(t, uint8(0x99), c.Read(0x5001))
}

func TestPRGReadWriteRoutesToMapper(t *testing.T) {
	c := newTestConsole()

	c.Write(0x8000, 0x55)
	assert.Equal(t, uint8(0x55), c.Read(0x8000))
}

func TestMirrorModeReflectsMapper(t *testing.T) {
	c := newTestConsole()
	mappers.Dummy.MM = 1
	defer func() { mappers.Dummy.MM = 0 }()

	assert.Equal(t, uint8(1), c.MirrorMode())
}

func TestClearMemZeroesRAM(t *testing.T) {
	c := newTestConsole()
	c.Write(0x0000, 0xFF)

	c.ClearMem()

	assert.Zero(t, c.Read(0x0000))
}
