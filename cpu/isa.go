package cpu

import (
	"fmt"
)

// Class is the 2-bit instruction family selector.
type Class int

const (
	CLASS_LDI  = Class(0) // load immediate into R0
	CLASS_ALU  = Class(1) // R3 <= R1 op R2
	CLASS_COPY = Class(2) // register/IO copy
	CLASS_JUMP = Class(3) // conditional jump to R0
)

var classNames = [4]string{"ldi", "alu", "mov", "jmp"}

func (class Class) String() string {
	return classNames[class&3]
}

// AluOp is a 3-bit ALU operation selector.
type AluOp int

const (
	ALU_OP_OR    = AluOp(0)
	ALU_OP_NAND  = AluOp(1)
	ALU_OP_NOR   = AluOp(2)
	ALU_OP_AND   = AluOp(3)
	ALU_OP_ADD   = AluOp(4)
	ALU_OP_SUB   = AluOp(5)
	ALU_OP_XOR   = AluOp(6)
	ALU_OP_SHIFT = AluOp(7) // routed to the barrel shifter, not the ALU
)

var aluOpNames = [8]string{"OR", "NAND", "NOR", "AND", "ADD", "SUB", "XOR", "SHIFT"}

func (op AluOp) String() string {
	return aluOpNames[op&7]
}

// JumpCond is a 3-bit jump condition selector, evaluated against the
// signed value of R3.
type JumpCond int

const (
	COND_NEVER   = JumpCond(0) // NOP
	COND_ZERO    = JumpCond(1) // JZ
	COND_NEG     = JumpCond(2) // JLZ
	COND_LEZ     = JumpCond(3) // JLEZ
	COND_ALWAYS  = JumpCond(4) // JMP
	COND_NONZERO = JumpCond(5) // JNZ
	COND_GEZ     = JumpCond(6) // JGEZ
	COND_GTZ     = JumpCond(7) // JGZ
)

var jumpCondNames = [8]string{"NOP", "JZ", "JLZ", "JLEZ", "JMP", "JNZ", "JGEZ", "JGZ"}

func (cond JumpCond) String() string {
	return jumpCondNames[cond&7]
}

// Register indices. Indices 0-6 address the register file; REG_IO (7)
// addresses the memory-mapped I/O port instead.
const (
	REG_R0 = 0 // jump target
	REG_R1 = 1 // ALU operand A
	REG_R2 = 2 // ALU operand B
	REG_R3 = 3 // ALU/condition result
	REG_R4 = 4
	REG_R5 = 5
	REG_R6 = 6 // I/O port address
	REG_IO = 7 // not a register: the I/O port itself
)

var regNames = [8]string{"R0", "R1", "R2", "R3", "R4", "R5", "R6", "IO"}

// RegName returns the assembly name for a register index.
func RegName(index int) string {
	return regNames[index&7]
}

// CodeHalt is the conventional halt byte: an undefined CLASS_JUMP
// encoding with all reserved bits set. Unused ROM is filled with it.
const CodeHalt = Code(0xFF)

// Code is a single Overture instruction byte.
type Code uint8

// MakeCodeLdi creates a load-immediate instruction. The immediate is
// truncated to 6 bits.
func MakeCodeLdi(imm uint8) Code {
	return Code(imm & 0x3F)
}

// MakeCodeAlu creates an ALU instruction.
func MakeCodeAlu(op AluOp) Code {
	return Code(0x40 | uint8(op&7))
}

// MakeCodeCopy creates a register/IO copy instruction.
func MakeCodeCopy(src, dst int) Code {
	return Code(0x80 | uint8(src&7)<<3 | uint8(dst&7))
}

// MakeCodeJump creates a conditional jump instruction.
func MakeCodeJump(cond JumpCond) Code {
	return Code(0xC0 | uint8(cond&7))
}

// Class returns the instruction family from the top 2 bits.
func (code Code) Class() Class {
	return Class(code >> 6)
}

// Imm returns the CLASS_LDI immediate field.
func (code Code) Imm() uint8 {
	return uint8(code) & 0x3F
}

// AluOp returns the CLASS_ALU operation field.
func (code Code) AluOp() AluOp {
	return AluOp(code & 7)
}

// Cond returns the CLASS_JUMP condition field.
func (code Code) Cond() JumpCond {
	return JumpCond(code & 7)
}

// Src returns the CLASS_COPY source register field.
func (code Code) Src() int {
	return int(code>>3) & 7
}

// Dst returns the CLASS_COPY destination register field.
func (code Code) Dst() int {
	return int(code) & 7
}

// reserved returns the bits 5-3 field that must be zero for the ALU
// and jump classes.
func (code Code) reserved() uint8 {
	return uint8(code>>3) & 7
}

// Control is the decoded control-signal bundle for one instruction.
type Control struct {
	Class   Class
	AluOp   AluOp
	Cond    JumpCond
	Src     int   // source register, REG_IO for the bus
	Dst     int   // destination register, REG_IO for the bus
	Imm     uint8 // zero-extended CLASS_LDI immediate
	Illegal bool  // reserved bits violated; halts the processor
}

// Decode splits an instruction byte into its control bundle.
//
// CLASS_LDI always targets R0. CLASS_ALU reads R1 and R2 and writes R3,
// and is illegal unless bits 5-3 are zero. CLASS_COPY moves any of
// R0-R6 or the I/O port to any other. CLASS_JUMP tests R3 against the
// condition field with the target in R0, and is illegal unless bits
// 5-3 are zero.
func Decode(code Code) (ctl Control) {
	ctl.Class = code.Class()

	switch ctl.Class {
	case CLASS_LDI:
		ctl.Imm = code.Imm()
		ctl.Dst = REG_R0
	case CLASS_ALU:
		ctl.AluOp = code.AluOp()
		ctl.Src = REG_R2
		ctl.Dst = REG_R3
		ctl.Illegal = code.reserved() != 0
	case CLASS_COPY:
		ctl.Src = code.Src()
		ctl.Dst = code.Dst()
	case CLASS_JUMP:
		ctl.Cond = code.Cond()
		ctl.Src = REG_R3
		ctl.Illegal = code.reserved() != 0
	}

	return
}

// String returns the default disassembly of the instruction byte.
func (code Code) String() string {
	var dis Disassembler
	return dis.Code(code)
}

// GoString renders the byte the way it appears in ROM images.
func (code Code) GoString() string {
	return fmt.Sprintf("0x%02X", uint8(code))
}
