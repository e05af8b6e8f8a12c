// Package mappers implements and registers mappers that are
// referenced numerically by iNES and NES2.0 ROM files.
package mappers

import (
	"github.com/pkg/errors"

	"github.com/mwbrasher/gones8/rom"
)

// A global registry of mapper constructors, keyed by mapper id.
var allMappers = map[uint8]func() Mapper{}

func registerMapper(id uint8, ctor func() Mapper) {
	if _, ok := allMappers[id]; ok {
		panic("mapper id already registered")
	}
	allMappers[id] = ctor
}

// Get constructs and initializes a mapper for the given ROM, or
// returns an error if the ROM's mapper number is not implemented.
func Get(r *rom.ROM) (Mapper, error) {
	id := r.MapperNum()
	ctor, ok := allMappers[id]
	if !ok {
		return nil, errors.Errorf("unknown mapper id %d", id)
	}

	m := ctor()
	m.Init(r)
	return m, nil
}

// Mapper abstracts cartridge-specific PRG/CHR banking and mirroring.
// The 2KB of console-internal work RAM is owned by the bus, not the
// mapper; a mapper only ever sees addresses in its own PRG/CHR space.
type Mapper interface {
	ID() uint8
	Init(*rom.ROM)
	Name() string
	PrgRead(uint16) uint8   // Read PRG data, addr relative to $8000
	PrgWrite(uint16, uint8) // Write PRG data (bank-select registers on most mappers)
	ChrRead(uint16) uint8   // Read CHR data, addr relative to $0000
	ChrWrite(uint16, uint8) // Write CHR data (only takes effect over CHR RAM)
	MirroringMode() uint8   // Which mirroring mode nametable data uses
	HasSaveRAM() bool       // Whether the cartridge exposes Save RAM at $6000-$7FFF
}

type baseMapper struct {
	id   uint8
	rom  *rom.ROM
	name string
}

func (bm *baseMapper) ID() uint8 {
	return bm.id
}

func (bm *baseMapper) String() string {
	return bm.name
}

func (bm *baseMapper) Name() string {
	return bm.name
}

func (bm *baseMapper) Init(r *rom.ROM) {
	bm.rom = r
}

func (bm *baseMapper) MirroringMode() uint8 {
	return bm.rom.MirroringMode()
}

func (bm *baseMapper) HasSaveRAM() bool {
	return bm.rom.HasSaveRAM()
}
