package cpu

import (
	"fmt"
	"strings"
)

// Disassembler renders instruction bytes back into assembly text. It
// is a total function over all 256 byte values: undefined encodings
// render as HLT, never as an error. No labels, constants, or macros
// are inferred.
type Disassembler struct {
	IoPseudo bool // Render register-7 copies as MOV IO rather than IN/OUT.
	LdiHex   bool // Render LDI immediates in hex with a '#' prefix.
	AluNoOp  bool // Omit the OP keyword before ALU mnemonics.
}

// Code disassembles a single instruction byte.
func (dis *Disassembler) Code(code Code) string {
	switch code.Class() {
	case CLASS_LDI:
		if dis.LdiHex {
			return fmt.Sprintf("LDI #%02X", code.Imm())
		}
		return fmt.Sprintf("LDI %d", code.Imm())

	case CLASS_ALU:
		if code.reserved() != 0 {
			return "HLT"
		}
		name := code.AluOp().String()
		if dis.AluNoOp {
			return name
		}
		return "OP " + name

	case CLASS_COPY:
		src := code.Src()
		dst := code.Dst()
		if !dis.IoPseudo {
			if src == REG_IO && dst != REG_IO {
				return fmt.Sprintf("IN %s", RegName(dst))
			}
			if dst == REG_IO && src != REG_IO {
				return fmt.Sprintf("OUT %s", RegName(src))
			}
		}
		return fmt.Sprintf("MOV %s, %s", RegName(dst), RegName(src))

	case CLASS_JUMP:
		if code.reserved() != 0 {
			return "HLT"
		}
		return code.Cond().String()
	}

	return "HLT"
}

// Disassemble renders a byte stream as an addressed listing, one line
// per byte.
func (dis *Disassembler) Disassemble(data []uint8) string {
	lines := make([]string, 0, len(data))
	for addr, value := range data {
		lines = append(lines, fmt.Sprintf("%04X:   %02X    %s",
			addr, value, dis.Code(Code(value))))
	}
	return strings.Join(lines, "\n")
}

// ParseHexText decodes a hex text stream into bytes, ignoring
// whitespace and punctuation between digits.
func ParseHexText(text string) (data []uint8, err error) {
	var digits strings.Builder
	for _, char := range text {
		switch {
		case char >= '0' && char <= '9':
			digits.WriteRune(char)
		case char >= 'a' && char <= 'f':
			digits.WriteRune(char - 'a' + 'A')
		case char >= 'A' && char <= 'F':
			digits.WriteRune(char)
		case (char >= 'g' && char <= 'z') || (char >= 'G' && char <= 'Z'):
			err = ErrHexCharacter
			return
		default:
			// separator
		}
	}

	hex := digits.String()
	if len(hex)%2 != 0 {
		err = ErrHexOddLength
		return
	}

	data = make([]uint8, 0, len(hex)/2)
	for n := 0; n < len(hex); n += 2 {
		data = append(data, hexNibble(hex[n])<<4|hexNibble(hex[n+1]))
	}

	return
}

func hexNibble(char byte) uint8 {
	if char >= 'A' {
		return uint8(char-'A') + 10
	}
	return uint8(char - '0')
}
