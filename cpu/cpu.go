package cpu

import (
	"fmt"
	"log"
)

// RomSize is the instruction memory size in bytes. The PC wraps at
// this boundary.
const RomSize = 256

// Port is the memory-mapped I/O bus as seen by the processor. The
// address driven on reads and writes is always the current value of
// R6.
type Port interface {
	Read(addr uint8) uint8
	Write(addr uint8, data uint8)
}

// Cpu is the simulation context for the Overture processor.
//
// One Step() call performs a complete fetch/decode/execute/write-back
// cycle using the register and bus values as they existed at entry;
// writes become visible on the next step. Decoding an undefined
// instruction sets Halted, which freezes the PC and register file
// until Reset().
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Rom [RomSize]uint8 // Program memory, loaded once.

	Pc     uint8        // Current program counter.
	Halted bool         // Permanent until Reset().
	Reg    RegisterFile // Register bank R0-R6.

	Port Port // Memory-mapped I/O port; nil reads 0 and drops writes.

	Steps int // Completed (non-halted) step counter.

	// Observables from the most recent step, for the bus-side wiring.
	IoRead  bool  // An I/O read happened this step.
	IoWrote bool  // An I/O write happened this step.
	IoAddr  uint8 // Address of the I/O access (R6 at step entry).
	IoData  uint8 // Data of the I/O write.
}

// NewCpu creates a processor with the given program image. Trailing
// ROM bytes beyond the image are filled with the halt byte.
func NewCpu(image []uint8) (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Load(image)
	return
}

// Load replaces the program memory with an image, padding the
// remainder with the halt byte, and resets the processor.
func (cpu *Cpu) Load(image []uint8) {
	for n := range cpu.Rom {
		if n < len(image) {
			cpu.Rom[n] = image[n]
		} else {
			cpu.Rom[n] = uint8(CodeHalt)
		}
	}
	cpu.Reset()
}

// Reset zeroes the PC, the register file, the step counter, and
// clears the halt flag. The ROM contents are preserved.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	cpu.Halted = false
	cpu.Reg.Reset()
	cpu.Steps = 0
	cpu.IoRead = false
	cpu.IoWrote = false
	cpu.IoAddr = 0
	cpu.IoData = 0
}

// Register returns the value of register 0-6. Index 7 and above read 0.
func (cpu *Cpu) Register(index int) uint8 {
	return cpu.Reg.Read(index)
}

// portRead resolves a read of the I/O port at the R6 address.
func (cpu *Cpu) portRead() uint8 {
	cpu.IoRead = true
	cpu.IoAddr = cpu.Reg.IoAddress()
	if cpu.Port == nil {
		return 0
	}
	return cpu.Port.Read(cpu.IoAddr)
}

// portWrite resolves a write of the I/O port at the R6 address.
func (cpu *Cpu) portWrite(data uint8) {
	cpu.IoWrote = true
	cpu.IoAddr = cpu.Reg.IoAddress()
	cpu.IoData = data
	if cpu.Port != nil {
		cpu.Port.Write(cpu.IoAddr, data)
	}
}

// Step advances the processor by one instruction cycle: fetch the
// instruction at the PC, decode, execute, write back, then increment
// the PC or load it from R0 on a taken jump. Once halted, Step is
// idempotent.
func (cpu *Cpu) Step() {
	if cpu.Halted {
		return
	}

	code := Code(cpu.Rom[cpu.Pc])
	ctl := Decode(code)

	if cpu.Verbose {
		log.Printf("cpu: %02X: %02X %v", cpu.Pc, uint8(code), code)
	}

	if ctl.Illegal {
		cpu.Halted = true
		if cpu.Verbose {
			log.Printf("cpu: halted at %02X", cpu.Pc)
		}
		return
	}

	// Resolve the source operand before any mutation.
	cpu.IoRead = false
	cpu.IoWrote = false
	var source uint8
	if ctl.Src == REG_IO {
		source = cpu.portRead()
	} else {
		source = cpu.Reg.Read(ctl.Src)
	}

	// Execute.
	var result uint8
	taken := false
	switch ctl.Class {
	case CLASS_LDI:
		result = ctl.Imm
	case CLASS_ALU:
		a := cpu.Reg.AluOperandA()
		if ctl.AluOp == ALU_OP_SHIFT {
			result = BarrelShift(a, signExtend4(source))
		} else {
			result = AluEval(ctl.AluOp, a, source)
		}
	case CLASS_COPY:
		result = source
	case CLASS_JUMP:
		taken = CondEval(ctl.Cond, int8(source))
	}

	// Write back.
	switch ctl.Class {
	case CLASS_LDI, CLASS_ALU:
		cpu.Reg.Write(ctl.Dst, result)
	case CLASS_COPY:
		if ctl.Dst == REG_IO {
			cpu.portWrite(result)
		} else {
			cpu.Reg.Write(ctl.Dst, result)
		}
	case CLASS_JUMP:
		// no register or I/O write
	}

	// PC update. The jump target is R0 as of step entry; only LDI and
	// ALU write registers and neither coincides with a jump, so the
	// pre-write-back value is still in place here.
	if taken {
		cpu.Pc = cpu.Reg.JumpTarget()
	} else {
		cpu.Pc++
	}

	cpu.Steps++
}

// String returns the current processor state.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("   pc: %02X\n halt: %v\n", cpu.Pc, cpu.Halted)
	for n := range 7 {
		text += fmt.Sprintf("   %s: %02X\n", RegName(n), cpu.Reg.Read(n))
	}
	return
}
