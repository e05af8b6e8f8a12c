package rom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestROM writes a minimal NROM (mapper 0) iNES image with one
// 16KB PRG bank and one 8KB CHR bank to a temp file and returns its path.
func buildTestROM(t *testing.T) string {
	t.Helper()

	header := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	prg := make([]byte, PRG_BLOCK_SIZE)
	chr := make([]byte, CHR_BLOCK_SIZE)

	buf := append(append(header, prg...), chr...)

	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestNew(t *testing.T) {
	path := buildTestROM(t)

	r, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), r.NumPrgBlocks())
	assert.Equal(t, PRG_BLOCK_SIZE, r.PrgSize())
	assert.Equal(t, CHR_BLOCK_SIZE, r.ChrSize())
	assert.False(t, r.ChrIsRAM())
	assert.Equal(t, uint8(0), r.MapperNum())
}

func TestNewBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.nes")
	require.NoError(t, os.WriteFile(path, make([]byte, 16), 0o644))

	_, err := New(path)
	assert.Error(t, err)
}

func TestChrRAMFallback(t *testing.T) {
	header := []byte{'N', 'E', 'S', 0x1A, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	prg := make([]byte, PRG_BLOCK_SIZE)
	buf := append(header, prg...)

	path := filepath.Join(t.TempDir(), "chrram.nes")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	r, err := New(path)
	require.NoError(t, err)
	assert.True(t, r.ChrIsRAM())
	assert.Equal(t, ChrRAMSize, r.ChrSize())

	r.ChrWrite(0x10, 0x42)
	assert.Equal(t, uint8(0x42), r.ChrRead(0x10))
}

func TestPrgReadWrite(t *testing.T) {
	path := buildTestROM(t)
	r, err := New(path)
	require.NoError(t, err)

	r.PrgWrite(0, 0x99)
	assert.Equal(t, uint8(0x99), r.PrgRead(0))

	// NROM-128 mirrors $C000-$FFFF onto the single 16KB bank.
	assert.Equal(t, uint8(0x99), r.PrgRead(PRG_BLOCK_SIZE))
}
