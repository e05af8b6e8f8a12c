package mappers

// mapper0 implements NROM: https://www.nesdev.org/wiki/NROM
// 16KB or 32KB of fixed PRG ROM, no bank switching. A 16KB cartridge
// is mirrored across both halves of $8000-$FFFF.
func init() {
	registerMapper(0, func() Mapper {
		return &mapper0{baseMapper: &baseMapper{id: 0, name: "NROM"}}
	})
}

type mapper0 struct {
	*baseMapper
}

func (m *mapper0) PrgRead(addr uint16) uint8 {
	return m.rom.PrgRead(addr)
}

func (m *mapper0) PrgWrite(addr uint16, val uint8) {
	// PRG ROM is fixed; NROM carts ignore writes.
}

func (m *mapper0) ChrRead(addr uint16) uint8 {
	return m.rom.ChrRead(addr)
}

func (m *mapper0) ChrWrite(addr uint16, val uint8) {
	m.rom.ChrWrite(addr, val)
}
