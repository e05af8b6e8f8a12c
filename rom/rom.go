// package rom implements support for the NES (iNES, NES2) ROM
// format. https://www.nesdev.org/wiki/INES
package rom

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type PlayChoicePROM struct {
	Data       [16]byte
	CounterOut [16]byte
}

type ROM struct {
	path      string
	h         *Header
	trainer   []byte          // if present
	prg       []byte          // 16384 * x bytes; x from header
	chr       []byte          // 8192 * y bytes; y from header
	chrIsRAM  bool            // true when header.chrSize == 0
	pcInstRom []byte          // if present
	pcPROM    *PlayChoicePROM // if present; often missing - see PC10 ROM-Images
}

const (
	TRAINER_SIZE   = 512
	PRG_BLOCK_SIZE = 16384
	CHR_BLOCK_SIZE = 8192
	PC_INST_SIZE   = 8192
	PC_PROM_SIZE   = 32

	ChrRAMSize = CHR_BLOCK_SIZE
)

func New(path string) (*ROM, error) {
	rf, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't open ROM file %q", path)
	}
	defer rf.Close()

	hbytes := make([]byte, 16)
	if _, err := io.ReadFull(rf, hbytes); err != nil {
		return nil, errors.Wrap(err, "couldn't read header")
	}

	h := parseHeader(hbytes)
	if !h.isINesFormat() {
		return nil, errors.Errorf("%q is not an iNES ROM (bad magic %q)", path, h.constant)
	}

	r := &ROM{path: path, h: h}

	if r.h.hasTrainer() {
		r.trainer = make([]byte, TRAINER_SIZE)
		if _, err := io.ReadFull(rf, r.trainer); err != nil {
			return nil, errors.Wrap(err, "error reading trainer data")
		}
	}

	s := PRG_BLOCK_SIZE * int(r.h.prgSize)
	r.prg = make([]byte, s)
	if _, err := io.ReadFull(rf, r.prg); err != nil {
		return nil, errors.Wrapf(err, "error reading PRG ROM (wanted %d bytes)", s)
	}

	if r.h.chrSize == 0 {
		r.chrIsRAM = true
		r.chr = make([]byte, ChrRAMSize)
	} else {
		s = CHR_BLOCK_SIZE * int(r.h.chrSize)
		r.chr = make([]byte, s)
		if _, err := io.ReadFull(rf, r.chr); err != nil {
			return nil, errors.Wrapf(err, "error reading CHR ROM (wanted %d bytes)", s)
		}
	}

	if r.h.hasPlayChoice() {
		r.pcInstRom = make([]byte, PC_INST_SIZE)
		if _, err := io.ReadFull(rf, r.pcInstRom); err != nil {
			return nil, errors.Wrap(err, "error reading PlayChoice INST ROM")
		}

		// Some old ROMs may not have this, so bailing might
		// be bad. But these should be rare, so we'll do the
		// technically correct thing for now.
		pcprom := make([]byte, PC_PROM_SIZE)
		if _, err := io.ReadFull(rf, pcprom); err != nil {
			return nil, errors.Wrap(err, "error reading PlayChoice PROM")
		}
	}

	return r, nil
}

func (r *ROM) NumPrgBlocks() uint8 {
	return r.h.prgSize
}

func (r *ROM) PrgSize() int {
	return len(r.prg)
}

func (r *ROM) ChrSize() int {
	return len(r.chr)
}

func (r *ROM) ChrIsRAM() bool {
	return r.chrIsRAM
}

func (r *ROM) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", r.h))
	if r.h.hasTrainer() {
		sb.WriteString(fmt.Sprintf("Trainer: %v\n", r.trainer))
	}

	sb.WriteString(fmt.Sprintf("PRG: %d bytes\n", len(r.prg)))
	sb.WriteString(fmt.Sprintf("CHR: %d bytes (RAM=%v)\n", len(r.chr), r.chrIsRAM))

	return sb.String()
}

func (r *ROM) PrgRead(addr uint16) uint8 {
	return r.prg[int(addr)%len(r.prg)]
}

func (r *ROM) PrgWrite(addr uint16, val uint8) {
	r.prg[int(addr)%len(r.prg)] = val
}

func (r *ROM) ChrRead(addr uint16) uint8 {
	return r.chr[addr]
}

func (r *ROM) ChrWrite(addr uint16, val uint8) {
	if !r.chrIsRAM {
		return
	}
	r.chr[addr] = val
}

func (r *ROM) MapperNum() uint8 {
	return r.h.mapperNum()
}

func (r *ROM) MirroringMode() uint8 {
	return r.h.mirroringMode()
}

func (r *ROM) HasSaveRAM() bool {
	return r.h.hasPrgRAM()
}
