package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Program is the result of a successful assembly: one Opcode per
// instruction, in source order, each carrying its program address.
type Program struct {
	Opcodes []Opcode
}

// Format selects the rendering of an assembled program.
type Format int

const (
	FORMAT_BINARY = Format(0) // raw instruction bytes
	FORMAT_HEX    = Format(1) // uppercase hex text
	FORMAT_DUMP   = Format(2) // addressed listing with source
	FORMAT_VHDL   = Format(3) // ROM array literal
)

var formatNames = map[string]Format{
	"binary": FORMAT_BINARY,
	"hex":    FORMAT_HEX,
	"dump":   FORMAT_DUMP,
	"vhdl":   FORMAT_VHDL,
}

// ParseFormat maps a format name to its Format value.
func ParseFormat(name string) (format Format, err error) {
	format, ok := formatNames[name]
	if !ok {
		err = ErrFormatInvalid
	}
	return
}

// Bytes returns the encoded instruction bytes in source order. ORG
// gaps are not padded here; use Image() for a ROM.
func (prog *Program) Bytes() (bytes []uint8) {
	bytes = make([]uint8, 0, len(prog.Opcodes))
	for _, op := range prog.Opcodes {
		bytes = append(bytes, op.Byte)
	}
	return
}

// Image returns a full 256-byte ROM image with each instruction at
// its program address and every unused cell holding the halt byte.
func (prog *Program) Image() (image []uint8) {
	image = make([]uint8, RomSize)
	for n := range image {
		image[n] = uint8(CodeHalt)
	}
	for _, op := range prog.Opcodes {
		image[op.Address] = op.Byte
	}
	return
}

// Codes iterates over (address, instruction) pairs in source order.
func (prog *Program) Codes() iter.Seq2[uint8, Code] {
	return func(yield func(addr uint8, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint8(op.Address), Code(op.Byte)) {
				return
			}
		}
	}
}

// Debug returns the Opcode assembled at a program address, or nil.
func (prog *Program) Debug(addr uint8) *Opcode {
	for n := range prog.Opcodes {
		if prog.Opcodes[n].Address == int(addr) {
			return &prog.Opcodes[n]
		}
	}
	return nil
}

// Render produces the program in the selected format. All four
// formats are deterministic functions of the same instruction stream.
func (prog *Program) Render(format Format) (out []byte, err error) {
	switch format {
	case FORMAT_BINARY:
		out = prog.Bytes()

	case FORMAT_HEX:
		var text strings.Builder
		for _, op := range prog.Opcodes {
			fmt.Fprintf(&text, "%02X", op.Byte)
		}
		out = []byte(text.String())

	case FORMAT_DUMP:
		lines := make([]string, 0, len(prog.Opcodes))
		for _, op := range prog.Opcodes {
			lines = append(lines, fmt.Sprintf("%04X:   %02X    %s",
				op.Address, op.Byte, joinWords(op.Words)))
		}
		out = []byte(strings.Join(lines, "\n"))

	case FORMAT_VHDL:
		lines := make([]string, 0, len(prog.Opcodes))
		for _, op := range prog.Opcodes {
			lines = append(lines, fmt.Sprintf("x\"%02X\",  -- %04X: %s",
				op.Byte, op.Address, joinWords(op.Words)))
		}
		out = []byte(strings.Join(lines, "\n"))

	default:
		err = ErrFormatInvalid
	}

	return
}
