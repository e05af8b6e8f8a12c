package ppu

// loopy struct will store v and t (loopy registers) and allow
// extracting and setting the various components as described below:
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) coarseX() uint16 {
	return l.data & 0x001F
}

func (l *loopy) setCoarseX(n uint16) {
	l.data = (l.data & 0xFFE0) | n
}

// incrementCoarseX wraps coarse X at 31, flipping the horizontal
// nametable select bit instead of bleeding into coarse Y.
// https://www.nesdev.org/wiki/PPU_scrolling#Coarse_X_increment
func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.data &^= 0x001F
		l.data ^= 0x0400
		return
	}
	l.data++
}

func (l *loopy) coarseY() uint16 {
	return (l.data & 0x03E0) >> 5
}

// incrementCoarseY wraps at 29, the last visible row of the
// nametable, flipping the vertical nametable select bit. Coarse Y can
// be set out of range (30 or 31) by software, in which case it wraps
// at 31 without flipping the nametable bit - an intentional hardware
// quirk used by some games for split-scroll tricks.
// https://www.nesdev.org/wiki/PPU_scrolling#Y_increment
func (l *loopy) incrementCoarseY() {
	y := l.coarseY()
	switch {
	case y == 29:
		y = 0
		l.data ^= 0x0800
	case y == 31:
		y = 0
	default:
		y++
	}
	l.data = (l.data & 0xFC1F) | (y << 5)
}

func (l *loopy) setCoarseY(n uint16) {
	l.data = (l.data & 0xFC1F) | (uint16(n) << 5)
}

func (l *loopy) nametableX() uint16 {
	return (l.data & 0x0400) >> 10
}

func clearBit(n, pos uint16) uint16 {
	return n &^ (uint16(1) << (pos - 1))
}

func (l *loopy) toggleNametableX() {
	if l.nametableX() == 1 {
		l.data = clearBit(l.data, 11)
	} else {
		l.data |= (uint16(1) << 10)
	}
}

func (l *loopy) nametableY() uint16 {
	return (l.data & 0x0800) >> 11
}

func (l *loopy) toggleNametableY() {
	if l.nametableY() == 1 {
		l.data = clearBit(l.data, 12)
	} else {
		l.data |= (uint16(1) << 11)
	}
}

func (l *loopy) fineY() uint16 {
	return (l.data & 0x7000) >> 12
}

// incrementFineY rolls fine Y over into a coarse Y increment every 8
// scanlines, matching the PPU's vertical position counter.
func (l *loopy) incrementFineY() {
	if l.fineY() == 7 {
		l.data &= 0x0FFF
		l.incrementCoarseY()
		return
	}
	l.data = (l.data & 0x0FFF) | ((l.fineY() + 1) << 12)
}

func (l *loopy) setFineY(n uint16) {
	l.data = (l.data & 0x0FFF) | (n << 12)
}
