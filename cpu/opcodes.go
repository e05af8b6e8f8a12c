package cpu

import "fmt"

// 6502 Addressing Modes
// https://www.nesdev.org/obelisk-6502-guide/addressing.html
const (
	modeImplicit = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeRelative
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX // Indexed Indirect
	modeIndirectY // Indirect Indexed
)

// instruction kinds group opcodes by the micro-op sequence shape they
// need, independent of addressing mode.
const (
	kindImplied = iota
	kindAccumulator
	kindBranch
	kindPush
	kindPull
	kindJMPAbs
	kindJMPInd
	kindJSR
	kindRTS
	kindRTI
	kindBRK
	kindRead
	kindWrite
	kindRMW
)

type opDef struct {
	name   string
	mode   uint8
	kind   uint8
	bytes  uint8
	cycles uint8

	readExec func(c *CPU)          // kindRead / kindImplied / kindAccumulator (accumulator via rmwExec instead)
	rmwExec  func(c *CPU) uint8    // kindRMW / kindAccumulator: takes c.operand, returns new value
	getValue func(c *CPU) uint8    // kindWrite: value to store
	cond     func(c *CPU) bool     // kindBranch
}

func (o opDef) String() string {
	return fmt.Sprintf("%s(mode=%d)", o.name, o.mode)
}

var opcodeTable = map[uint8]opDef{}

func defOp(code uint8, o opDef) {
	if _, ok := opcodeTable[code]; ok {
		panic(fmt.Sprintf("opcode $%02X already defined", code))
	}
	opcodeTable[code] = o
}

func init() {
	// ALU read instructions
	defRead := func(name string, exec func(c *CPU), modes map[uint8][2]uint8) {
		for mode, mb := range modes {
			defOp(mb[0], opDef{name: name, mode: mode, kind: kindRead, bytes: modeBytes(mode), cycles: mb[1], readExec: exec})
		}
	}

	defRead("ADC", execADC, map[uint8][2]uint8{
		modeImmediate: {0x69, 2}, modeZeroPage: {0x65, 3}, modeZeroPageX: {0x75, 4},
		modeAbsolute: {0x6D, 4}, modeAbsoluteX: {0x7D, 4}, modeAbsoluteY: {0x79, 4},
		modeIndirectX: {0x61, 6}, modeIndirectY: {0x71, 5},
	})
	defRead("AND", execAND, map[uint8][2]uint8{
		modeImmediate: {0x29, 2}, modeZeroPage: {0x25, 3}, modeZeroPageX: {0x35, 4},
		modeAbsolute: {0x2D, 4}, modeAbsoluteX: {0x3D, 4}, modeAbsoluteY: {0x39, 4},
		modeIndirectX: {0x21, 6}, modeIndirectY: {0x31, 5},
	})
	defRead("ORA", execORA, map[uint8][2]uint8{
		modeImmediate: {0x09, 2}, modeZeroPage: {0x05, 3}, modeZeroPageX: {0x15, 4},
		modeAbsolute: {0x0D, 4}, modeAbsoluteX: {0x1D, 4}, modeAbsoluteY: {0x19, 4},
		modeIndirectX: {0x01, 6}, modeIndirectY: {0x11, 5},
	})
	defRead("EOR", execEOR, map[uint8][2]uint8{
		modeImmediate: {0x49, 2}, modeZeroPage: {0x45, 3}, modeZeroPageX: {0x55, 4},
		modeAbsolute: {0x4D, 4}, modeAbsoluteX: {0x5D, 4}, modeAbsoluteY: {0x59, 4},
		modeIndirectX: {0x41, 6}, modeIndirectY: {0x51, 5},
	})
	defRead("SBC", execSBC, map[uint8][2]uint8{
		modeImmediate: {0xE9, 2}, modeZeroPage: {0xE5, 3}, modeZeroPageX: {0xF5, 4},
		modeAbsolute: {0xED, 4}, modeAbsoluteX: {0xFD, 4}, modeAbsoluteY: {0xF9, 4},
		modeIndirectX: {0xE1, 6}, modeIndirectY: {0xF1, 5},
	})
	defRead("CMP", execCMP, map[uint8][2]uint8{
		modeImmediate: {0xC9, 2}, modeZeroPage: {0xC5, 3}, modeZeroPageX: {0xD5, 4},
		modeAbsolute: {0xCD, 4}, modeAbsoluteX: {0xDD, 4}, modeAbsoluteY: {0xD9, 4},
		modeIndirectX: {0xC1, 6}, modeIndirectY: {0xD1, 5},
	})
	defRead("LDA", execLDA, map[uint8][2]uint8{
		modeImmediate: {0xA9, 2}, modeZeroPage: {0xA5, 3}, modeZeroPageX: {0xB5, 4},
		modeAbsolute: {0xAD, 4}, modeAbsoluteX: {0xBD, 4}, modeAbsoluteY: {0xB9, 4},
		modeIndirectX: {0xA1, 6}, modeIndirectY: {0xB1, 5},
	})
	defRead("LDX", execLDX, map[uint8][2]uint8{
		modeImmediate: {0xA2, 2}, modeZeroPage: {0xA6, 3}, modeZeroPageY: {0xB6, 4},
		modeAbsolute: {0xAE, 4}, modeAbsoluteY: {0xBE, 4},
	})
	defRead("LDY", execLDY, map[uint8][2]uint8{
		modeImmediate: {0xA0, 2}, modeZeroPage: {0xA4, 3}, modeZeroPageX: {0xB4, 4},
		modeAbsolute: {0xAC, 4}, modeAbsoluteX: {0xBC, 4},
	})
	defRead("CPX", execCPX, map[uint8][2]uint8{
		modeImmediate: {0xE0, 2}, modeZeroPage: {0xE4, 3}, modeAbsolute: {0xEC, 4},
	})
	defRead("CPY", execCPY, map[uint8][2]uint8{
		modeImmediate: {0xC0, 2}, modeZeroPage: {0xC4, 3}, modeAbsolute: {0xCC, 4},
	})
	defRead("BIT", execBIT, map[uint8][2]uint8{
		modeZeroPage: {0x24, 3}, modeAbsolute: {0x2C, 4},
	})

	defWrite := func(name string, get func(c *CPU) uint8, modes map[uint8][2]uint8) {
		for mode, mb := range modes {
			defOp(mb[0], opDef{name: name, mode: mode, kind: kindWrite, bytes: modeBytes(mode), cycles: mb[1], getValue: get})
		}
	}
	defWrite("STA", func(c *CPU) uint8 { return c.A }, map[uint8][2]uint8{
		modeZeroPage: {0x85, 3}, modeZeroPageX: {0x95, 4}, modeAbsolute: {0x8D, 4},
		modeAbsoluteX: {0x9D, 5}, modeAbsoluteY: {0x99, 5}, modeIndirectX: {0x81, 6}, modeIndirectY: {0x91, 6},
	})
	defWrite("STX", func(c *CPU) uint8 { return c.X }, map[uint8][2]uint8{
		modeZeroPage: {0x86, 3}, modeZeroPageY: {0x96, 4}, modeAbsolute: {0x8E, 4},
	})
	defWrite("STY", func(c *CPU) uint8 { return c.Y }, map[uint8][2]uint8{
		modeZeroPage: {0x84, 3}, modeZeroPageX: {0x94, 4}, modeAbsolute: {0x8C, 4},
	})

	defRMW := func(name string, exec func(c *CPU) uint8, modes map[uint8][2]uint8) {
		for mode, mb := range modes {
			defOp(mb[0], opDef{name: name, mode: mode, kind: kindRMW, bytes: modeBytes(mode), cycles: mb[1], rmwExec: exec})
		}
	}
	defRMW("ASL", execASL, map[uint8][2]uint8{
		modeZeroPage: {0x06, 5}, modeZeroPageX: {0x16, 6}, modeAbsolute: {0x0E, 6}, modeAbsoluteX: {0x1E, 7},
	})
	defRMW("LSR", execLSR, map[uint8][2]uint8{
		modeZeroPage: {0x46, 5}, modeZeroPageX: {0x56, 6}, modeAbsolute: {0x4E, 6}, modeAbsoluteX: {0x5E, 7},
	})
	defRMW("ROL", execROL, map[uint8][2]uint8{
		modeZeroPage: {0x26, 5}, modeZeroPageX: {0x36, 6}, modeAbsolute: {0x2E, 6}, modeAbsoluteX: {0x3E, 7},
	})
	defRMW("ROR", execROR, map[uint8][2]uint8{
		modeZeroPage: {0x66, 5}, modeZeroPageX: {0x76, 6}, modeAbsolute: {0x6E, 6}, modeAbsoluteX: {0x7E, 7},
	})
	defRMW("INC", execINC, map[uint8][2]uint8{
		modeZeroPage: {0xE6, 5}, modeZeroPageX: {0xF6, 6}, modeAbsolute: {0xEE, 6}, modeAbsoluteX: {0xFE, 7},
	})
	defRMW("DEC", execDEC, map[uint8][2]uint8{
		modeZeroPage: {0xC6, 5}, modeZeroPageX: {0xD6, 6}, modeAbsolute: {0xCE, 6}, modeAbsoluteX: {0xDE, 7},
	})

	defOp(0x0A, opDef{name: "ASL", mode: modeAccumulator, kind: kindAccumulator, bytes: 1, cycles: 2, rmwExec: execASL})
	defOp(0x4A, opDef{name: "LSR", mode: modeAccumulator, kind: kindAccumulator, bytes: 1, cycles: 2, rmwExec: execLSR})
	defOp(0x2A, opDef{name: "ROL", mode: modeAccumulator, kind: kindAccumulator, bytes: 1, cycles: 2, rmwExec: execROL})
	defOp(0x6A, opDef{name: "ROR", mode: modeAccumulator, kind: kindAccumulator, bytes: 1, cycles: 2, rmwExec: execROR})

	implied := func(code uint8, name string, exec func(c *CPU)) {
		defOp(code, opDef{name: name, mode: modeImplicit, kind: kindImplied, bytes: 1, cycles: 2, readExec: exec})
	}
	implied(0x18, "CLC", func(c *CPU) { c.setFlag(FlagCarry, false) })
	implied(0x38, "SEC", func(c *CPU) { c.setFlag(FlagCarry, true) })
	implied(0xD8, "CLD", func(c *CPU) { c.setFlag(FlagDecimal, false) })
	implied(0xF8, "SED", func(c *CPU) { c.setFlag(FlagDecimal, true) })
	implied(0x58, "CLI", func(c *CPU) { c.setFlag(FlagInterrupt, false) })
	implied(0x78, "SEI", func(c *CPU) { c.setFlag(FlagInterrupt, true) })
	implied(0xB8, "CLV", func(c *CPU) { c.setFlag(FlagOverflow, false) })
	implied(0xEA, "NOP", func(c *CPU) {})
	implied(0xAA, "TAX", func(c *CPU) { c.X = c.A; c.setZN(c.X) })
	implied(0xA8, "TAY", func(c *CPU) { c.Y = c.A; c.setZN(c.Y) })
	implied(0x8A, "TXA", func(c *CPU) { c.A = c.X; c.setZN(c.A) })
	implied(0x98, "TYA", func(c *CPU) { c.A = c.Y; c.setZN(c.A) })
	implied(0xBA, "TSX", func(c *CPU) { c.X = c.SP; c.setZN(c.X) })
	implied(0x9A, "TXS", func(c *CPU) { c.SP = c.X })
	implied(0xCA, "DEX", func(c *CPU) { c.X--; c.setZN(c.X) })
	implied(0x88, "DEY", func(c *CPU) { c.Y--; c.setZN(c.Y) })
	implied(0xE8, "INX", func(c *CPU) { c.X++; c.setZN(c.X) })
	implied(0xC8, "INY", func(c *CPU) { c.Y++; c.setZN(c.Y) })

	defOp(0x48, opDef{name: "PHA", mode: modeImplicit, kind: kindPush, bytes: 1, cycles: 3, getValue: func(c *CPU) uint8 { return c.A }})
	defOp(0x08, opDef{name: "PHP", mode: modeImplicit, kind: kindPush, bytes: 1, cycles: 3, getValue: func(c *CPU) uint8 { return c.P | FlagUnused | FlagBreak }})
	defOp(0x68, opDef{name: "PLA", mode: modeImplicit, kind: kindPull, bytes: 1, cycles: 4, readExec: func(c *CPU) { c.A = c.operand; c.setZN(c.A) }})
	defOp(0x28, opDef{name: "PLP", mode: modeImplicit, kind: kindPull, bytes: 1, cycles: 4, readExec: func(c *CPU) {
		c.P = (c.operand &^ FlagBreak) | FlagUnused
	}})

	branch := func(code uint8, name string, cond func(c *CPU) bool) {
		defOp(code, opDef{name: name, mode: modeRelative, kind: kindBranch, bytes: 2, cycles: 2, cond: cond})
	}
	branch(0x90, "BCC", func(c *CPU) bool { return !c.getFlag(FlagCarry) })
	branch(0xB0, "BCS", func(c *CPU) bool { return c.getFlag(FlagCarry) })
	branch(0xF0, "BEQ", func(c *CPU) bool { return c.getFlag(FlagZero) })
	branch(0xD0, "BNE", func(c *CPU) bool { return !c.getFlag(FlagZero) })
	branch(0x30, "BMI", func(c *CPU) bool { return c.getFlag(FlagNegative) })
	branch(0x10, "BPL", func(c *CPU) bool { return !c.getFlag(FlagNegative) })
	branch(0x50, "BVC", func(c *CPU) bool { return !c.getFlag(FlagOverflow) })
	branch(0x70, "BVS", func(c *CPU) bool { return c.getFlag(FlagOverflow) })

	defOp(0x4C, opDef{name: "JMP", mode: modeAbsolute, kind: kindJMPAbs, bytes: 3, cycles: 3})
	defOp(0x6C, opDef{name: "JMP", mode: modeIndirect, kind: kindJMPInd, bytes: 3, cycles: 5})
	defOp(0x20, opDef{name: "JSR", mode: modeAbsolute, kind: kindJSR, bytes: 3, cycles: 6})
	defOp(0x60, opDef{name: "RTS", mode: modeImplicit, kind: kindRTS, bytes: 1, cycles: 6})
	defOp(0x40, opDef{name: "RTI", mode: modeImplicit, kind: kindRTI, bytes: 1, cycles: 6})
	defOp(0x00, opDef{name: "BRK", mode: modeImplicit, kind: kindBRK, bytes: 2, cycles: 7})
}

func modeBytes(mode uint8) uint8 {
	switch mode {
	case modeImplicit, modeAccumulator:
		return 1
	case modeImmediate, modeZeroPage, modeZeroPageX, modeZeroPageY, modeRelative, modeIndirectX, modeIndirectY:
		return 2
	default:
		return 3
	}
}

// ---- ALU instruction bodies ----

func execADC(c *CPU) {
	a, m, carry := c.A, c.operand, uint16(0)
	if c.getFlag(FlagCarry) {
		carry = 1
	}
	sum := uint16(a) + uint16(m) + carry
	c.setFlag(FlagCarry, sum > 0xFF)
	res := uint8(sum)
	c.setFlag(FlagOverflow, (a^m)&0x80 == 0 && (a^res)&0x80 != 0)
	c.A = res
	c.setZN(c.A)
}

func execSBC(c *CPU) {
	a, m, borrow := c.A, c.operand^0xFF, uint16(0)
	if c.getFlag(FlagCarry) {
		borrow = 1
	}
	sum := uint16(a) + uint16(m) + borrow
	c.setFlag(FlagCarry, sum > 0xFF)
	res := uint8(sum)
	c.setFlag(FlagOverflow, (a^m)&0x80 == 0 && (a^res)&0x80 != 0)
	c.A = res
	c.setZN(c.A)
}

func execAND(c *CPU) { c.A &= c.operand; c.setZN(c.A) }
func execORA(c *CPU) { c.A |= c.operand; c.setZN(c.A) }
func execEOR(c *CPU) { c.A ^= c.operand; c.setZN(c.A) }

func execCMP(c *CPU) { compare(c, c.A, c.operand) }
func execCPX(c *CPU) { compare(c, c.X, c.operand) }
func execCPY(c *CPU) { compare(c, c.Y, c.operand) }

func compare(c *CPU, reg, m uint8) {
	c.setFlag(FlagCarry, reg >= m)
	c.setZN(reg - m)
}

func execBIT(c *CPU) {
	c.setFlag(FlagZero, c.A&c.operand == 0)
	c.setFlag(FlagOverflow, c.operand&0x40 != 0)
	c.setFlag(FlagNegative, c.operand&0x80 != 0)
}

func execLDA(c *CPU) { c.A = c.operand; c.setZN(c.A) }
func execLDX(c *CPU) { c.X = c.operand; c.setZN(c.X) }
func execLDY(c *CPU) { c.Y = c.operand; c.setZN(c.Y) }

func execASL(c *CPU) uint8 {
	c.setFlag(FlagCarry, c.operand&0x80 != 0)
	r := c.operand << 1
	c.setZN(r)
	return r
}

func execLSR(c *CPU) uint8 {
	c.setFlag(FlagCarry, c.operand&0x01 != 0)
	r := c.operand >> 1
	c.setZN(r)
	return r
}

func execROL(c *CPU) uint8 {
	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 1
	}
	c.setFlag(FlagCarry, c.operand&0x80 != 0)
	r := (c.operand << 1) | carryIn
	c.setZN(r)
	return r
}

func execROR(c *CPU) uint8 {
	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 0x80
	}
	c.setFlag(FlagCarry, c.operand&0x01 != 0)
	r := (c.operand >> 1) | carryIn
	c.setZN(r)
	return r
}

func execINC(c *CPU) uint8 {
	r := c.operand + 1
	c.setZN(r)
	return r
}

func execDEC(c *CPU) uint8 {
	r := c.operand - 1
	c.setZN(r)
	return r
}
