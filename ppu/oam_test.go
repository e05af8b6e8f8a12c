package ppu

import (
	"testing"
)

func TestOAMAttributes(t *testing.T) {
	cases := []struct {
		attrib         uint8
		wantPa         uint8
		wantPr         spritePriority
		wantFH, wantFV bool
	}{
		{0b11111111, 0x03, BACK, true, true},
		{0b01111111, 0x03, BACK, true, false},
		{0b00111111, 0x03, BACK, false, false},
		{0b00111101, 0x01, BACK, false, false},
		{0b00011101, 0x01, FRONT, false, false},
		{0b10011101, 0x01, FRONT, false, true},
		{0b10011110, 0x02, FRONT, false, true},
	}

	for i, tc := range cases {
		e := spriteEntry{0, 0, tc.attrib, 0}

		if e.palette() != tc.wantPa || e.priority() != tc.wantPr || e.flipH() != tc.wantFH || e.flipV() != tc.wantFV {
			t.Errorf("%d: %02x, %d, %t, %t; wanted %02x, %d, %t, %t", i, e.palette(), e.priority(), e.flipH(), e.flipV(), tc.wantPa, tc.wantPr, tc.wantFH, tc.wantFV)
		}

		if e.attributes() != tc.attrib&0xE3 {
			t.Errorf("%d: attributes() round-trip = %08b, want %08b", i, e.attributes(), tc.attrib&0xE3)
		}
	}
}

func TestSpriteEntryAtViewsOAMTable(t *testing.T) {
	var table [256]uint8
	table[4] = 0x10  // sprite 1's y
	table[5] = 0x20  // sprite 1's tile
	table[6] = 0x01  // sprite 1's attributes: palette 1
	table[7] = 0x30  // sprite 1's x

	e := spriteEntryAt(table[:], 1)
	if e.y() != 0x10 || e.tileID() != 0x20 || e.palette() != 0x01 || e.x() != 0x30 {
		t.Errorf("spriteEntryAt(1) = %+v, want y=0x10 tileID=0x20 palette=0x01 x=0x30", e)
	}
}
