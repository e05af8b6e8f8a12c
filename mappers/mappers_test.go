package mappers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwbrasher/gones8/rom"
)

func writeROM(t *testing.T, prgBanks, chrBanks uint8, mapperID uint8) *rom.ROM {
	t.Helper()

	flags6 := (mapperID & 0x0F) << 4
	flags7 := mapperID & 0xF0
	header := []byte{'N', 'E', 'S', 0x1A, prgBanks, chrBanks, flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := append(header, make([]byte, int(prgBanks)*rom.PRG_BLOCK_SIZE+int(chrBanks)*rom.CHR_BLOCK_SIZE)...)

	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	r, err := rom.New(path)
	require.NoError(t, err)
	return r
}

func TestGetUnknownMapper(t *testing.T) {
	r := writeROM(t, 1, 1, 99)
	_, err := Get(r)
	assert.Error(t, err)
}

func TestMapper0NROM128Mirrors(t *testing.T) {
	r := writeROM(t, 1, 1, 0)
	m, err := Get(r)
	require.NoError(t, err)

	r.PrgWrite(0x10, 0xAB)
	assert.Equal(t, uint8(0xAB), m.PrgRead(0x10))
	assert.Equal(t, uint8(0xAB), m.PrgRead(0x4010)) // mirrored second 16KB
}

func TestMapper2BankSwitch(t *testing.T) {
	r := writeROM(t, 4, 1, 2)
	m, err := Get(r)
	require.NoError(t, err)

	r.PrgWrite(0x4000, 0x11)       // second 16KB bank, offset 0
	r.PrgWrite(3*0x4000, 0x22)     // last (fixed) 16KB bank, offset 0

	m.PrgWrite(0x8000, 1) // select bank 1
	assert.Equal(t, uint8(0x11), m.PrgRead(0))
	assert.Equal(t, uint8(0x22), m.PrgRead(0x4000)) // fixed window always reads bank 3
}
