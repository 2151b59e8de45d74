package cpu

// AluEval performs one combinational ALU operation on two 8-bit
// operands. Arithmetic wraps modulo 256; no carry or overflow flags
// exist. ALU_OP_SHIFT is not handled here - the execute stage routes
// it to BarrelShift - and returns 0 if requested directly.
func AluEval(op AluOp, a, b uint8) uint8 {
	switch op {
	case ALU_OP_OR:
		return a | b
	case ALU_OP_NAND:
		return ^(a & b)
	case ALU_OP_NOR:
		return ^(a | b)
	case ALU_OP_AND:
		return a & b
	case ALU_OP_ADD:
		return a + b
	case ALU_OP_SUB:
		return a - b
	case ALU_OP_XOR:
		return a ^ b
	}

	return 0
}

// BarrelShift shifts an 8-bit value by a signed amount. Positive
// amounts shift left, negative amounts shift right, both zero-filled.
// Amounts of magnitude 8 or more shift every bit out and return 0.
func BarrelShift(value uint8, amount int8) uint8 {
	switch {
	case amount >= 8 || amount <= -8:
		return 0
	case amount >= 0:
		return value << amount
	default:
		return value >> (-amount)
	}
}

// CondEval evaluates a jump condition against a signed 8-bit operand
// and returns the branch-taken flag.
func CondEval(cond JumpCond, operand int8) bool {
	switch cond {
	case COND_NEVER:
		return false
	case COND_ZERO:
		return operand == 0
	case COND_NEG:
		return operand < 0
	case COND_LEZ:
		return operand <= 0
	case COND_ALWAYS:
		return true
	case COND_NONZERO:
		return operand != 0
	case COND_GEZ:
		return operand >= 0
	case COND_GTZ:
		return operand > 0
	}

	return false
}

// signExtend4 interprets the low 4 bits of a byte as a two's
// complement value in -8..7. The barrel shift amount is encoded this
// way in operand B.
func signExtend4(value uint8) int8 {
	value &= 0x0F
	if value >= 0x08 {
		return int8(value) - 0x10
	}
	return int8(value)
}
