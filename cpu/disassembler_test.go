package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassemblerDefault(t *testing.T) {
	assert := assert.New(t)

	var dis Disassembler

	table := [](struct {
		code Code
		text string
	}){
		{0x00, "LDI 0"},
		{0x2A, "LDI 42"},
		{0x3F, "LDI 63"},
		{0x40, "OP OR"},
		{0x44, "OP ADD"},
		{0x47, "OP SHIFT"},
		{0x48, "HLT"}, // reserved ALU bits
		{0x84, "MOV R4, R0"},
		{0xBC, "IN R4"},
		{0x9F, "OUT R3"},
		{0xBF, "MOV IO, IO"}, // IO to IO is neither IN nor OUT
		{0xC0, "NOP"},
		{0xC4, "JMP"},
		{0xC2, "JLZ"},
		{0xC8, "HLT"}, // reserved jump bits
		{0xFF, "HLT"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, dis.Code(entry.code), "%#v", entry.code)
	}
}

func TestDisassemblerFlags(t *testing.T) {
	assert := assert.New(t)

	dis := Disassembler{IoPseudo: true, LdiHex: true, AluNoOp: true}

	assert.Equal("LDI #2A", dis.Code(0x2A))
	assert.Equal("ADD", dis.Code(0x44))
	assert.Equal("MOV R4, IO", dis.Code(0xBC))
	assert.Equal("MOV IO, R3", dis.Code(0x9F))
}

func TestDisassemblerTotal(t *testing.T) {
	assert := assert.New(t)

	// Every byte value renders; undefined encodings render as HLT.
	var dis Disassembler
	for n := range 256 {
		text := dis.Code(Code(n))
		assert.NotEmpty(text, "%02X", n)
	}
}

func TestDisassembleListing(t *testing.T) {
	assert := assert.New(t)

	var dis Disassembler
	listing := dis.Disassemble([]uint8{0x2A, 0xFF})
	assert.Equal("0000:   2A    LDI 42\n0001:   FF    HLT", listing)
}

func TestParseHexText(t *testing.T) {
	assert := assert.New(t)

	data, err := ParseHexText("2a ff\n0B, 10")
	assert.NoError(err)
	assert.Equal([]uint8{0x2A, 0xFF, 0x0B, 0x10}, data)

	_, err = ParseHexText("2az")
	assert.ErrorIs(err, ErrHexCharacter)

	_, err = ParseHexText("2af")
	assert.ErrorIs(err, ErrHexOddLength)
}
