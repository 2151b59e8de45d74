package cpu

// RegisterFile holds the seven 8-bit general registers R0-R6.
//
// Index 7 is never serviced here: the processor redirects it to the
// I/O port on both the read and write side. Registers 0, 1, 2, 3 and
// 6 carry extra meaning fixed by the instruction encoding, exposed as
// named accessors rather than baked into Read/Write.
type RegisterFile struct {
	reg [7]uint8
}

// Read returns the value of a register, or 0 for any index above 6.
// Index 7 reads are the caller's responsibility to redirect to the
// I/O port before calling here.
func (rf *RegisterFile) Read(index int) uint8 {
	if index < 0 || index > 6 {
		return 0
	}
	return rf.reg[index]
}

// Write stores a value into a register. Writes to any index above 6
// are silently ignored; the processor routes index 7 to the I/O port
// instead of the register file.
func (rf *RegisterFile) Write(index int, value uint8) {
	if index < 0 || index > 6 {
		return
	}
	rf.reg[index] = value
}

// Reset zeroes all seven registers.
func (rf *RegisterFile) Reset() {
	clear(rf.reg[:])
}

// JumpTarget returns R0, the address loaded into the PC on a taken jump.
func (rf *RegisterFile) JumpTarget() uint8 {
	return rf.reg[REG_R0]
}

// AluOperandA returns R1.
func (rf *RegisterFile) AluOperandA() uint8 {
	return rf.reg[REG_R1]
}

// AluOperandB returns R2.
func (rf *RegisterFile) AluOperandB() uint8 {
	return rf.reg[REG_R2]
}

// Result returns R3, the ALU result and jump condition operand.
func (rf *RegisterFile) Result() uint8 {
	return rf.reg[REG_R3]
}

// IoAddress returns R6, the address driven onto the I/O port.
func (rf *RegisterFile) IoAddress() uint8 {
	return rf.reg[REG_R6]
}
