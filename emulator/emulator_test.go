package emulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overturesoc/overture/cpu"
	"github.com/overturesoc/overture/io"
)

func compile(t *testing.T, source string) *cpu.Program {
	t.Helper()

	asm := &cpu.Assembler{}
	Predefines(asm)

	prog, err := asm.Parse(strings.NewReader(source))
	require.NoError(t, err)
	return prog
}

func TestEmulatorFibonacciToRam(t *testing.T) {
	assert := assert.New(t)

	// The Fibonacci loop aimed at bus addresses 0-7 lands in RAM.
	prog := compile(t, `
        LDI 0
        MOV R4, R0
        MOV R6, R0
        LDI 1
        MOV R5, R0
loop:   OUT R4
        MOV R1, R4
        MOV R2, R5
        ADD
        MOV R4, R5
        MOV R5, R3
        MOV R1, R6
        LDI 1
        MOV R2, R0
        ADD
        MOV R6, R3
        LDI 8
        MOV R2, R0
        MOV R1, R6
        SUB
        LDI loop
        JLZ
        HLT
`)

	emu := NewEmulator()
	emu.LoadProgram(prog)
	assert.NoError(emu.Run(10_000))

	expected := []uint8{0x00, 0x01, 0x01, 0x02, 0x03, 0x05, 0x08, 0x0D}
	for n, value := range expected {
		assert.Equal(value, emu.Bus.Ram.Data[n], "ram[%v]", n)
	}
}

func TestEmulatorGpioCopy(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `
        LDI GPIO
        MOV R6, R0
        IN R4
        OUT R4
        HLT
`)

	emu := NewEmulator()
	emu.LoadProgram(prog)
	emu.Bus.Gpio.SetInput(0x15)

	assert.NoError(emu.Run(100))
	assert.Equal(uint8(0x15), emu.Bus.Gpio.Output)
}

func TestEmulatorDelayPoll(t *testing.T) {
	assert := assert.New(t)

	// Load 2 into the microsecond delay, poll until it hits zero.
	prog := compile(t, `
        LDI DELAY_US
        MOV R6, R0
        LDI 2
        MOV R4, R0
        OUT R4
loop:   IN R3
        LDI loop
        JNZ
        HLT
`)

	emu := NewEmulator()
	emu.LoadProgram(prog)
	assert.NoError(emu.Run(1_000))
	assert.Equal(uint8(0), emu.Bus.DelayUs.Counter)
	// The poll loop runs at one bus tick per step, so the halt takes
	// at least two divisor periods.
	assert.Greater(emu.Cpu.Steps, int(io.DELAY_US_DIVISOR)*2)
}

func TestEmulatorStepLimit(t *testing.T) {
	assert := assert.New(t)

	// An empty ROM halts immediately; a spin loop never does.
	emu := NewEmulator()
	emu.Load(nil)
	assert.NoError(emu.Run(10))

	prog := compile(t, "loop: LDI loop\nJMP\n")
	emu.LoadProgram(prog)
	assert.ErrorIs(emu.Run(1_000), ErrStepLimit)
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, "LDI 5\nMOV R4, R0\nHLT\n")

	emu := NewEmulator()
	emu.LoadProgram(prog)
	assert.NoError(emu.Run(10))
	assert.Equal(uint8(5), emu.Cpu.Register(cpu.REG_R4))
	assert.True(emu.Cpu.Halted)

	emu.Reset()
	assert.False(emu.Cpu.Halted)
	assert.Equal(uint8(0), emu.Cpu.Register(cpu.REG_R4))

	// The image survives a reset.
	assert.NoError(emu.Run(10))
	assert.Equal(uint8(5), emu.Cpu.Register(cpu.REG_R4))
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, "LDI 1\nLDI 2\nHLT\n")

	emu := NewEmulator()
	emu.LoadProgram(prog)

	assert.Equal(1, emu.LineNo())
	emu.Step()
	assert.Equal(2, emu.LineNo())
}
