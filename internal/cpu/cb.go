package cpu

// executeCB dispatches a CB-prefixed opcode, completing the table the
// base switch's teacher-derived fragment never reached: rotate/shift
// (0x00-0x3F), BIT (0x40-0x7F), RES (0x80-0xBF), SET (0xC0-0xFF),
// each addressing one of the eight getR8/setR8 operands.
func (c *CPU) executeCB(op byte) int {
	reg := op & 7
	memCost := 0
	if reg == 6 {
		memCost = 1
	}

	switch {
	case op < 0x40:
		v := c.getR8(reg)
		res, cy := c.shiftFamily((op>>3)&7, v)
		c.setR8(reg, res)
		c.setFlag(flagZ, res == 0)
		c.setFlag(flagN, false)
		c.setFlag(flagH, false)
		c.setFlag(flagC, cy)
		if memCost == 1 {
			return 16
		}
		return 8

	case op < 0x80:
		bit := (op >> 3) & 7
		v := c.getR8(reg)
		c.setFlag(flagZ, v&(1<<bit) == 0)
		c.setFlag(flagN, false)
		c.setFlag(flagH, true)
		if memCost == 1 {
			return 12
		}
		return 8

	case op < 0xC0:
		bit := (op >> 3) & 7
		v := c.getR8(reg) &^ (1 << bit)
		c.setR8(reg, v)
		if memCost == 1 {
			return 16
		}
		return 8

	default:
		bit := (op >> 3) & 7
		v := c.getR8(reg) | (1 << bit)
		c.setR8(reg, v)
		if memCost == 1 {
			return 16
		}
		return 8
	}
}

// shiftFamily applies one of RLC,RRC,RL,RR,SLA,SRA,SWAP,SRL selected
// by (op>>3)&7 within the 0x00-0x3F CB block.
func (c *CPU) shiftFamily(family byte, v byte) (res byte, cy bool) {
	switch family {
	case 0:
		return rlc(v)
	case 1:
		return rrc(v)
	case 2:
		return rl(v, c.flag(flagC))
	case 3:
		return rr(v, c.flag(flagC))
	case 4:
		return sla(v)
	case 5:
		return sra(v)
	case 6:
		return swap(v), false
	default:
		return srl(v)
	}
}
