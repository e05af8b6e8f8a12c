package cpu

// buildMicroOps translates a decoded opcode into the sequence of
// bus-cycle closures that will execute it, one per remaining cycle
// (the opcode fetch itself already consumed the first cycle).
func buildMicroOps(op opDef) []microOp {
	switch op.kind {
	case kindImplied:
		return []microOp{func(c *CPU) { c.read(c.PC); op.readExec(c) }}

	case kindAccumulator:
		return []microOp{func(c *CPU) {
			c.read(c.PC)
			c.operand = c.A
			c.A = op.rmwExec(c)
		}}

	case kindBranch:
		return []microOp{func(c *CPU) {
			offset := int8(c.read(c.PC))
			c.PC++
			if !op.cond(c) {
				return
			}
			c.queue = append(c.queue, func(c *CPU) {
				c.read(c.PC) // dummy read of the next opcode byte
				old := c.PC
				c.PC = uint16(int32(old) + int32(offset))
				if old&0xFF00 == c.PC&0xFF00 {
					return
				}
				c.queue = append(c.queue, func(c *CPU) {
					c.read((old & 0xFF00) | (c.PC & 0x00FF)) // dummy read, wrong page
				})
			})
		}}

	case kindPush:
		return []microOp{
			func(c *CPU) { c.read(c.PC) },
			func(c *CPU) { c.push(op.getValue(c)) },
		}

	case kindPull:
		return []microOp{
			func(c *CPU) { c.read(c.PC) },
			func(c *CPU) { c.SP++ }, // no bus access: the dummy read at the old SP is not issued
			func(c *CPU) { c.operand = c.read(stackPage | uint16(c.SP)); op.readExec(c) },
		}

	case kindJMPAbs:
		return []microOp{
			func(c *CPU) { c.addr = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.addr |= uint16(c.read(c.PC)) << 8; c.PC = c.addr },
		}

	case kindJMPInd:
		return []microOp{
			func(c *CPU) { c.addr = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.addr |= uint16(c.read(c.PC)) << 8; c.PC++ },
			func(c *CPU) { c.base = c.read16bug(c.addr) },
			func(c *CPU) { c.PC = c.base },
		}

	case kindJSR:
		return []microOp{
			func(c *CPU) { c.addr = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.read(stackPage | uint16(c.SP)) }, // internal stack-peek cycle
			func(c *CPU) { c.push(uint8(c.PC >> 8)) },
			func(c *CPU) { c.push(uint8(c.PC)) },
			func(c *CPU) { c.addr |= uint16(c.read(c.PC)) << 8; c.PC = c.addr },
		}

	case kindRTS:
		return []microOp{
			func(c *CPU) { c.read(c.PC) },
			func(c *CPU) { c.SP++; c.read(stackPage | uint16(c.SP)) },
			func(c *CPU) { c.addr = uint16(c.read(stackPage | uint16(c.SP))); c.SP++ },
			func(c *CPU) { c.addr |= uint16(c.read(stackPage|uint16(c.SP))) << 8 },
			func(c *CPU) { c.PC = c.addr + 1 },
		}

	case kindRTI:
		return []microOp{
			func(c *CPU) { c.read(c.PC) },
			func(c *CPU) { c.SP++; c.read(stackPage | uint16(c.SP)) },
			func(c *CPU) { c.P = (c.read(stackPage|uint16(c.SP)) &^ FlagBreak) | FlagUnused; c.SP++ },
			func(c *CPU) { c.addr = uint16(c.read(stackPage | uint16(c.SP))); c.SP++ },
			func(c *CPU) { c.PC = uint16(c.read(stackPage|uint16(c.SP)))<<8 | c.addr },
		}

	case kindBRK:
		return interruptSequence(vecIRQ, true)

	case kindRead:
		return readModeOps(op.mode, op.readExec)

	case kindWrite:
		return writeModeOps(op.mode, op.getValue)

	case kindRMW:
		return rmwModeOps(op.mode, op.rmwExec)
	}

	panic("unreachable opcode kind")
}

func idxReg(c *CPU, mode uint8) uint8 {
	if mode == modeZeroPageX || mode == modeAbsoluteX || mode == modeIndirectX {
		return c.X
	}
	return c.Y
}

func readModeOps(mode uint8, exec func(c *CPU)) []microOp {
	switch mode {
	case modeImmediate:
		return []microOp{func(c *CPU) { c.operand = c.read(c.PC); c.PC++; exec(c) }}

	case modeZeroPage:
		return []microOp{
			func(c *CPU) { c.addr = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.operand = c.read(c.addr); exec(c) },
		}

	case modeZeroPageX, modeZeroPageY:
		return []microOp{
			func(c *CPU) { c.base = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.read(c.base); c.addr = uint16(uint8(c.base) + idxReg(c, mode)) },
			func(c *CPU) { c.operand = c.read(c.addr); exec(c) },
		}

	case modeAbsolute:
		return []microOp{
			func(c *CPU) { c.addr = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.addr |= uint16(c.read(c.PC)) << 8; c.PC++ },
			func(c *CPU) { c.operand = c.read(c.addr); exec(c) },
		}

	case modeAbsoluteX, modeAbsoluteY:
		return []microOp{
			func(c *CPU) { c.base = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) {
				c.base |= uint16(c.read(c.PC)) << 8
				c.PC++
				c.addr = c.base + uint16(idxReg(c, mode))
				if c.base&0xFF00 == c.addr&0xFF00 {
					c.queue = append(c.queue, func(c *CPU) { c.operand = c.read(c.addr); exec(c) })
					return
				}
				c.queue = append(c.queue,
					func(c *CPU) { c.read((c.base & 0xFF00) | (c.addr & 0x00FF)) },
					func(c *CPU) { c.operand = c.read(c.addr); exec(c) },
				)
			},
		}

	case modeIndirectX:
		return []microOp{
			func(c *CPU) { c.ptr = c.read(c.PC); c.PC++ },
			func(c *CPU) { c.read(uint16(c.ptr)); c.ptr += c.X },
			func(c *CPU) { c.addr = uint16(c.read(uint16(c.ptr))) },
			func(c *CPU) { c.addr |= uint16(c.read(uint16(c.ptr+1))) << 8 },
			func(c *CPU) { c.operand = c.read(c.addr); exec(c) },
		}

	case modeIndirectY:
		return []microOp{
			func(c *CPU) { c.ptr = c.read(c.PC); c.PC++ },
			func(c *CPU) { c.base = uint16(c.read(uint16(c.ptr))) },
			func(c *CPU) {
				c.base |= uint16(c.read(uint16(c.ptr+1))) << 8
				c.addr = c.base + uint16(c.Y)
				if c.base&0xFF00 == c.addr&0xFF00 {
					c.queue = append(c.queue, func(c *CPU) { c.operand = c.read(c.addr); exec(c) })
					return
				}
				c.queue = append(c.queue,
					func(c *CPU) { c.read((c.base & 0xFF00) | (c.addr & 0x00FF)) },
					func(c *CPU) { c.operand = c.read(c.addr); exec(c) },
				)
			},
		}
	}

	panic("unhandled read addressing mode")
}

func writeModeOps(mode uint8, getVal func(c *CPU) uint8) []microOp {
	switch mode {
	case modeZeroPage:
		return []microOp{
			func(c *CPU) { c.addr = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.write(c.addr, getVal(c)) },
		}

	case modeZeroPageX, modeZeroPageY:
		return []microOp{
			func(c *CPU) { c.base = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.read(c.base); c.addr = uint16(uint8(c.base) + idxReg(c, mode)) },
			func(c *CPU) { c.write(c.addr, getVal(c)) },
		}

	case modeAbsolute:
		return []microOp{
			func(c *CPU) { c.addr = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.addr |= uint16(c.read(c.PC)) << 8; c.PC++ },
			func(c *CPU) { c.write(c.addr, getVal(c)) },
		}

	case modeAbsoluteX, modeAbsoluteY:
		return []microOp{
			func(c *CPU) { c.base = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) {
				c.base |= uint16(c.read(c.PC)) << 8
				c.PC++
				c.addr = c.base + uint16(idxReg(c, mode))
			},
			func(c *CPU) { c.read((c.base & 0xFF00) | (c.addr & 0x00FF)) }, // always taken: store can't undo
			func(c *CPU) { c.write(c.addr, getVal(c)) },
		}

	case modeIndirectX:
		return []microOp{
			func(c *CPU) { c.ptr = c.read(c.PC); c.PC++ },
			func(c *CPU) { c.read(uint16(c.ptr)); c.ptr += c.X },
			func(c *CPU) { c.addr = uint16(c.read(uint16(c.ptr))) },
			func(c *CPU) { c.addr |= uint16(c.read(uint16(c.ptr+1))) << 8 },
			func(c *CPU) { c.write(c.addr, getVal(c)) },
		}

	case modeIndirectY:
		return []microOp{
			func(c *CPU) { c.ptr = c.read(c.PC); c.PC++ },
			func(c *CPU) { c.base = uint16(c.read(uint16(c.ptr))) },
			func(c *CPU) {
				c.base |= uint16(c.read(uint16(c.ptr+1))) << 8
				c.addr = c.base + uint16(c.Y)
			},
			func(c *CPU) { c.read((c.base & 0xFF00) | (c.addr & 0x00FF)) },
			func(c *CPU) { c.write(c.addr, getVal(c)) },
		}
	}

	panic("unhandled write addressing mode")
}

func rmwModeOps(mode uint8, exec func(c *CPU) uint8) []microOp {
	switch mode {
	case modeZeroPage:
		return []microOp{
			func(c *CPU) { c.addr = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.operand = c.read(c.addr) },
			func(c *CPU) { c.write(c.addr, c.operand) }, // dummy write-back of old value
			func(c *CPU) { c.write(c.addr, exec(c)) },
		}

	case modeZeroPageX:
		return []microOp{
			func(c *CPU) { c.base = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.read(c.base); c.addr = uint16(uint8(c.base) + c.X) },
			func(c *CPU) { c.operand = c.read(c.addr) },
			func(c *CPU) { c.write(c.addr, c.operand) },
			func(c *CPU) { c.write(c.addr, exec(c)) },
		}

	case modeAbsolute:
		return []microOp{
			func(c *CPU) { c.addr = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) { c.addr |= uint16(c.read(c.PC)) << 8; c.PC++ },
			func(c *CPU) { c.operand = c.read(c.addr) },
			func(c *CPU) { c.write(c.addr, c.operand) },
			func(c *CPU) { c.write(c.addr, exec(c)) },
		}

	case modeAbsoluteX:
		return []microOp{
			func(c *CPU) { c.base = uint16(c.read(c.PC)); c.PC++ },
			func(c *CPU) {
				c.base |= uint16(c.read(c.PC)) << 8
				c.PC++
				c.addr = c.base + uint16(c.X)
			},
			func(c *CPU) { c.read((c.base & 0xFF00) | (c.addr & 0x00FF)) },
			func(c *CPU) { c.operand = c.read(c.addr) },
			func(c *CPU) { c.write(c.addr, c.operand) },
			func(c *CPU) { c.write(c.addr, exec(c)) },
		}
	}

	panic("unhandled RMW addressing mode")
}
