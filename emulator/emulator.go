// Package emulator wires the Overture processor to its peripheral bus
// and advances both in lock step.
package emulator

import (
	"errors"
	"log"

	"github.com/overturesoc/overture/cpu"
	"github.com/overturesoc/overture/io"
	"github.com/overturesoc/overture/translate"
)

var f = translate.From

// ErrStepLimit is returned by Run when the processor does not halt
// within the step budget.
var ErrStepLimit = errors.New(f("step limit reached"))

// Emulator state: processor + peripheral bus.
type Emulator struct {
	Verbose bool         // If set, enables verbose logging.
	Cpu     *cpu.Cpu     // The Overture processor.
	Bus     *io.Bus      // The peripheral bus, wired as the CPU's port.
	Program *cpu.Program // Source listing, when loaded from the assembler.
}

// NewEmulator creates an emulator with the standard peripheral set
// and an empty (all-halt) program.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(nil),
		Bus: io.NewBus(),
	}
	emu.Cpu.Port = emu.Bus
	return
}

// Predefines installs the peripheral address map as assembler
// constants, so programs can write 'MOV R6, R0 / LDI GPIO' style
// source without magic numbers.
func Predefines(asm *cpu.Assembler) {
	asm.Predefine("GPIO", int(io.GPIO_ADDR))
	asm.Predefine("DELAY_US", int(io.DELAY_US_ADDR))
	asm.Predefine("DELAY_MS", int(io.DELAY_MS_ADDR))
	asm.Predefine("DELAY_S", int(io.DELAY_S_ADDR))
	asm.Predefine("RAM", int(io.RAM_BASE))
}

// Load replaces the program memory with a raw image and resets.
func (emu *Emulator) Load(image []uint8) {
	emu.Program = nil
	emu.Cpu.Load(image)
	emu.Bus.Reset()
}

// LoadProgram loads an assembled program, keeping its listing for
// line lookups.
func (emu *Emulator) LoadProgram(prog *cpu.Program) {
	emu.Load(prog.Image())
	emu.Program = prog
}

// Reset resets the processor and every peripheral. The loaded image
// is preserved.
func (emu *Emulator) Reset() {
	emu.Cpu.Reset()
	emu.Bus.Reset()
}

// LineNo returns the source line of the instruction at the PC, when a
// listing is loaded.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}
	op := emu.Program.Debug(emu.Cpu.Pc)
	if op == nil {
		return 0
	}
	return op.LineNo
}

// Step advances the machine by one cycle: one processor step followed
// by one bus tick. Returns true once the processor has halted.
func (emu *Emulator) Step() (done bool) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Bus.Verbose = emu.Verbose

	emu.Cpu.Step()
	emu.Bus.Tick()

	return emu.Cpu.Halted
}

// Run steps the machine until the processor halts, or fails with
// ErrStepLimit after limit steps.
func (emu *Emulator) Run(limit int) (err error) {
	for n := 0; n < limit; n++ {
		if emu.Step() {
			if emu.Verbose {
				log.Printf("emulator: halted after %v steps", emu.Cpu.Steps)
			}
			return
		}
	}

	err = ErrStepLimit
	return
}
