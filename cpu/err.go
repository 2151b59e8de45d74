package cpu

import (
	"errors"

	"github.com/overturesoc/overture/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax    = errors.New(f("EQU syntax"))
	ErrOrgSyntax       = errors.New(f("ORG requires an address"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMacroName       = errors.New(f("macro name required"))
	ErrMacroNesting    = errors.New(f("%MACRO in %MACRO prohibited"))
	ErrMacroDuplicate  = errors.New(f("%MACRO duplicated"))
	ErrMacroLonely     = errors.New(f("%MACRO without %ENDMACRO"))
	ErrMacroLonelyEnd  = errors.New(f("%ENDMACRO without %MACRO"))
	ErrMacroArgCount   = errors.New(f("macro argument count mismatch"))
	ErrAluOpInvalid    = errors.New(f("ALU operation invalid"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrLdiRange        = errors.New(f("LDI value out of range (0-63)"))
	ErrOrgRange        = errors.New(f("address out of range (0-255)"))
	ErrOperandMissing  = errors.New(f("operand missing"))

	// Disassembler input errors
	ErrHexCharacter = errors.New(f("non-hexadecimal character"))
	ErrHexOddLength = errors.New(f("hex string must have even length"))

	// Program rendering errors
	ErrFormatInvalid = errors.New(f("output format invalid"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("unresolved symbol '%v'", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMnemonicInvalid string

func (err ErrMnemonicInvalid) Error() string {
	return f("unrecognized instruction '%v'", string(err))
}

// ErrJumpOperand reports a jump mnemonic written with an operand,
// pointing at the LDI spelling instead.
type ErrJumpOperand struct {
	Mnemonic string
	Operand  string
}

func (err ErrJumpOperand) Error() string {
	return f("%v %v not supported - use LDI %v before %v",
		err.Mnemonic, err.Operand, err.Operand, err.Mnemonic)
}

// ErrSyntax wraps a pass-1 error with its source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrEncode wraps a pass-2 error with the program address and source
// words of the offending instruction.
type ErrEncode struct {
	Address int
	Words   []string
	Err     error
}

func (err ErrEncode) Error() string {
	return f("address %04X '%v' %v", err.Address, joinWords(err.Words), err.Err)
}

func (err ErrEncode) Unwrap() error {
	return err.Err
}

// ErrMacro wraps an error from inside a macro expansion.
type ErrMacro struct {
	Macro string
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v %v", err.Macro, err.Err)
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
