package mappers

// mapper2 implements UxROM: https://www.nesdev.org/wiki/UxROM
// A 16KB switchable bank at $8000-$BFFF, selected by writing the bank
// number to any address in $8000-$FFFF. The last 16KB bank is fixed
// at $C000-$FFFF. CHR is always RAM (8KB, no banking).
func init() {
	registerMapper(2, func() Mapper {
		return &mapper2{baseMapper: &baseMapper{id: 2, name: "UxROM"}}
	})
}

type mapper2 struct {
	*baseMapper
	bank uint8
}

func (m *mapper2) PrgRead(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return m.rom.PrgRead(uint16(m.bank)*0x4000 + addr)
	default:
		lastBank := m.rom.NumPrgBlocks() - 1
		return m.rom.PrgRead(uint16(lastBank)*0x4000 + (addr - 0x4000))
	}
}

func (m *mapper2) PrgWrite(addr uint16, val uint8) {
	m.bank = val & 0x0F
}

func (m *mapper2) ChrRead(addr uint16) uint8 {
	return m.rom.ChrRead(addr)
}

func (m *mapper2) ChrWrite(addr uint16, val uint8) {
	m.rom.ChrWrite(addr, val)
}
