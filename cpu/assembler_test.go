package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, source string) *Program {
	t.Helper()

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(source))
	require.NoError(t, err)
	return prog
}

func TestAssemblerEmpty(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "")
	assert.Equal(0, len(prog.Opcodes))

	prog = assemble(t, "; nothing but comments\n\n   ; and blanks\n")
	assert.Equal(0, len(prog.Opcodes))
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, `
        LDI 10
        MOV R1, R0
        LDI 20
        MOV R2, R0
        ADD
        LDI 0
        MOV R6, R0
        OUT R3
        HLT
`)
	assert.Equal([]uint8{0x0A, 0x81, 0x14, 0x82, 0x44, 0x00, 0x86, 0x9F, 0xFF},
		prog.Bytes())
}

func TestAssemblerValues(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, `
        LDI #2A
        LDI 0x2A
        LDI 0b101010
        LDI 42
`)
	assert.Equal([]uint8{0x2A, 0x2A, 0x2A, 0x2A}, prog.Bytes())
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, `
start:  LDI 1
        LDI start
        JMP
after : HLT
`)
	assert.Equal([]uint8{0x01, 0x00, 0xC4, 0xFF}, prog.Bytes())
	assert.Equal(3, prog.Opcodes[3].Address)
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, `
COUNT   EQU 10
LIMIT   = 0x20
        LDI COUNT
        LDI LIMIT
        LDI $(COUNT + LIMIT)
`)
	assert.Equal([]uint8{0x0A, 0x20, 0x2A}, prog.Bytes())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("GPIO", 0x10)

	prog, err := asm.Parse(strings.NewReader("LDI GPIO\n"))
	assert.NoError(err)
	assert.Equal([]uint8{0x10}, prog.Bytes())
}

func TestAssemblerOrg(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, `
        LDI 1
        ORG 0x30
there:  HLT
`)
	assert.Equal(0x30, prog.Opcodes[1].Address)

	image := prog.Image()
	assert.Equal(uint8(0x01), image[0])
	assert.Equal(uint8(0xFF), image[1]) // gap filled with halt
	assert.Equal(uint8(0xFF), image[0x30])
	assert.Equal(RomSize, len(image))
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	// The label address is its position in the fully expanded
	// instruction stream; LJMP expands to exactly two instructions.
	prog := assemble(t, `
%MACRO LJMP a
        LDI a
        JMP
%ENDMACRO
        LJMP start
        NOP
start:  HLT
`)
	assert.Equal([]uint8{0x03, 0xC4, 0xC0, 0xFF}, prog.Bytes())

	manual := assemble(t, `
        LDI start
        JMP
        NOP
start:  HLT
`)
	assert.Equal(manual.Bytes(), prog.Bytes())
}

func TestAssemblerMacroArgs(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, `
%MACRO COPY2 from to1 to2
        MOV to1 from
        MOV to2 from
%ENDMACRO
        COPY2 R0 R4 R5
`)
	assert.Equal([]uint8{0x84, 0x85}, prog.Bytes())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		source string
		expect error
	}){
		{"unresolved", "LDI nowhere\n", ErrLabelMissing("nowhere")},
		{"ldi_range", "LDI 64\n", ErrLdiRange},
		{"ldi_negative", "LDI -1\n", ErrLdiRange},
		{"jump_operand", "JMP start\nstart: HLT\n", nil},
		{"bad_mnemonic", "FROB R1\n", ErrMnemonicInvalid("FROB")},
		{"bad_register", "MOV R9, R0\n", ErrRegisterInvalid},
		{"dup_label", "a: LDI 1\na: LDI 2\n", ErrLabelDuplicate},
		{"macro_nested", "%MACRO a\n%MACRO b\n%ENDMACRO\n%ENDMACRO\n", ErrMacroNesting},
		{"macro_open", "%MACRO a\nLDI 1\n", ErrMacroLonely},
		{"macro_endm", "%ENDMACRO\n", ErrMacroLonelyEnd},
		{"macro_args", "%MACRO a p\nLDI p\n%ENDMACRO\na 1 2\n", ErrMacroArgCount},
		{"org_range", "ORG 0x100\n", ErrOrgRange},
		{"bad_expr", "LDI $(nope +)\n", nil},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.source))
		assert.Error(err, entry.name)
		if entry.expect != nil {
			assert.ErrorIs(err, entry.expect, entry.name)
		}
	}
}

func TestAssemblerJumpOperandHint(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("start: JMP start\n"))
	assert.Error(err)

	var jump *ErrJumpOperand
	assert.True(errors.As(err, &jump))
	if jump != nil {
		assert.Equal("JMP", jump.Mnemonic)
	}
}

func TestAssemblerAllOrNothing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("LDI 1\nFROB\nLDI 2\n"))
	assert.Error(err)
	assert.Nil(prog)
}

func TestProgramRender(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "LDI 42\nHLT\n")

	out, err := prog.Render(FORMAT_BINARY)
	assert.NoError(err)
	assert.Equal([]byte{0x2A, 0xFF}, out)

	out, err = prog.Render(FORMAT_HEX)
	assert.NoError(err)
	assert.Equal("2AFF", string(out))

	out, err = prog.Render(FORMAT_DUMP)
	assert.NoError(err)
	assert.Equal("0000:   2A    LDI 42\n0001:   FF    HLT", string(out))

	out, err = prog.Render(FORMAT_VHDL)
	assert.NoError(err)
	assert.Equal("x\"2A\",  -- 0000: LDI 42\nx\"FF\",  -- 0001: HLT", string(out))

	_, err = prog.Render(Format(99))
	assert.ErrorIs(err, ErrFormatInvalid)

	format, err := ParseFormat("dump")
	assert.NoError(err)
	assert.Equal(FORMAT_DUMP, format)
	_, err = ParseFormat("nope")
	assert.ErrorIs(err, ErrFormatInvalid)
}
