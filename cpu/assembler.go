package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a %MACRO block in the assembly language.
type Macro struct {
	LineNo int        // Line number of the macro definition.
	Params []string   // Parameter names for the macro.
	Body   [][]string // Tokenized body lines to expand.
}

// Opcode represents one assembled instruction with its source location
// and program address.
type Opcode struct {
	LineNo  int      // Source line number.
	Address int      // Program address (post macro expansion).
	Words   []string // Resolved source tokens.
	Byte    uint8    // Encoded instruction byte.
}

// aluOps maps ALU mnemonics to their operation codes.
var aluOps = map[string]AluOp{
	"OR":    ALU_OP_OR,
	"NAND":  ALU_OP_NAND,
	"NOR":   ALU_OP_NOR,
	"AND":   ALU_OP_AND,
	"ADD":   ALU_OP_ADD,
	"SUB":   ALU_OP_SUB,
	"XOR":   ALU_OP_XOR,
	"SHIFT": ALU_OP_SHIFT,
}

// jumpConds maps jump mnemonics to their condition codes. The jump
// target is always taken from R0; the condition tests R3.
var jumpConds = map[string]JumpCond{
	"NOP":  COND_NEVER,
	"JZ":   COND_ZERO,
	"JLZ":  COND_NEG,
	"JLEZ": COND_LEZ,
	"JMP":  COND_ALWAYS,
	"JNZ":  COND_NONZERO,
	"JGEZ": COND_GEZ,
	"JGZ":  COND_GTZ,
}

// regIndexes maps register operand names to their encoding index.
var regIndexes = map[string]int{
	"R0": REG_R0,
	"R1": REG_R1,
	"R2": REG_R2,
	"R3": REG_R3,
	"R4": REG_R4,
	"R5": REG_R5,
	"R6": REG_R6,
	"IO": REG_IO,
}

// Assembler is a two-pass macro assembler for the Overture instruction
// set. Pass 1 expands macros, assigns addresses, and collects labels
// and constants; pass 2 resolves symbols and encodes instruction
// bytes. Assembly is all-or-nothing.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcodes []Opcode // Instructions gathered by pass 1, encoded by pass 2.

	Labels    map[string]int    // Map of labels to program addresses.
	Constants map[string]int    // Map of EQU/= constants.
	Macros    map[string]*Macro // Map of macro definitions.

	predefine map[string]int // Constants installed before parsing.
	address   int            // Next program address during pass 1.
	macro     *Macro         // Open %MACRO block, if any.
}

// Predefine installs a constant that every Parse() starts out with,
// as if it had been defined with EQU on line zero.
func (asm *Assembler) Predefine(name string, value int) {
	if asm.predefine == nil {
		asm.predefine = map[string]int{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// parseNumber parses a numeric token: '#' or '0x' hex, '0b' binary,
// or decimal.
func parseNumber(word string) (value int, err error) {
	var v64 int64
	switch {
	case strings.HasPrefix(word, "#"):
		v64, err = strconv.ParseInt(word[1:], 16, 64)
	case strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X"):
		v64, err = strconv.ParseInt(word[2:], 16, 64)
	case strings.HasPrefix(word, "0b") || strings.HasPrefix(word, "0B"):
		v64, err = strconv.ParseInt(word[2:], 2, 64)
	default:
		v64, err = strconv.ParseInt(word, 10, 64)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}
	value = int(v64)
	return
}

// resolve returns the value of a token: constant, label, or number.
func (asm *Assembler) resolve(word string) (value int, err error) {
	value, ok := asm.Constants[word]
	if ok {
		return
	}
	value, ok = asm.Labels[word]
	if ok {
		return
	}
	value, err = parseNumber(word)
	if err != nil {
		if isSymbol(word) {
			err = ErrLabelMissing(word)
		}
	}
	return
}

// isSymbol reports whether a token looks like an identifier rather
// than a malformed number.
func isSymbol(word string) bool {
	if len(word) == 0 {
		return false
	}
	c := word[0]
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// parenEval does compile-time $(...) evaluations with the constants
// defined so far bound as integers.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, val := range asm.Constants {
		pred[key] = starlark.MakeInt(val)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// tokenize strips the ';' comment and splits a line into tokens on
// spaces, commas, and tabs, keeping quoted spans intact. $(...)
// expressions are evaluated before splitting.
func (asm *Assembler) tokenize(line string) (words []string, err error) {
	if n := strings.IndexByte(line, ';'); n >= 0 {
		line = line[:n]
	}

	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	var current strings.Builder
	inQuotes := false
	for _, char := range line {
		switch {
		case char == '"':
			inQuotes = !inQuotes
			current.WriteRune(char)
		case (char == ' ' || char == ',' || char == '\t') && !inQuotes:
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return
}

// directive handles constant definitions, macro delimiters, and ORG.
// Returns true when the tokens were consumed as a directive.
func (asm *Assembler) directive(words []string, lineno int) (handled bool, err error) {
	// NAME = value and NAME EQU value
	if len(words) >= 3 && (words[1] == "=" || strings.EqualFold(words[1], "EQU")) {
		var value int
		value, err = asm.resolve(strings.Join(words[2:], ""))
		if err != nil {
			return true, err
		}
		asm.Constants[words[0]] = value
		return true, nil
	}

	switch strings.ToUpper(words[0]) {
	case "%MACRO":
		if asm.macro != nil {
			return true, ErrMacroNesting
		}
		if len(words) < 2 {
			return true, ErrMacroName
		}
		_, ok := asm.Macros[words[1]]
		if ok {
			return true, ErrMacroDuplicate
		}
		asm.macro = &Macro{
			LineNo: lineno + 1,
			Params: slices.Clone(words[2:]),
		}
		asm.Macros[words[1]] = asm.macro
		return true, nil
	case "%ENDMACRO":
		if asm.macro == nil {
			return true, ErrMacroLonelyEnd
		}
		asm.macro = nil
		return true, nil
	case "ORG":
		if len(words) < 2 {
			return true, ErrOrgSyntax
		}
		var value int
		value, err = asm.resolve(words[1])
		if err != nil {
			return true, err
		}
		if value < 0 || value >= RomSize {
			return true, ErrOrgRange
		}
		asm.address = value
		return true, nil
	}

	return false, nil
}

// expandMacro substitutes arguments into a macro body and emits the
// resulting instructions at the current address.
func (asm *Assembler) expandMacro(name string, args []string, lineno int) (err error) {
	macro := asm.Macros[name]
	if len(args) != len(macro.Params) {
		return &ErrMacro{Macro: name, Err: ErrMacroArgCount}
	}

	binding := make(map[string]string, len(macro.Params))
	for n, param := range macro.Params {
		binding[param] = args[n]
	}

	for _, body := range macro.Body {
		words := make([]string, len(body))
		for n, word := range body {
			if arg, ok := binding[word]; ok {
				words[n] = arg
			} else {
				words[n] = word
			}
		}
		err = asm.emit(words, lineno)
		if err != nil {
			return &ErrMacro{Macro: name, Err: err}
		}
	}

	return
}

// emit records one instruction at the current address.
func (asm *Assembler) emit(words []string, lineno int) (err error) {
	if asm.address >= RomSize {
		return ErrOrgRange
	}
	if asm.Verbose {
		log.Printf("asm: %02X: %v", asm.address, strings.Join(words, " "))
	}
	asm.Opcodes = append(asm.Opcodes, Opcode{
		LineNo:  lineno,
		Address: asm.address,
		Words:   words,
	})
	asm.address++
	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	// Pass-2 errors already carry the program address; only pass-1
	// errors get the source-line wrapper.
	defer func() {
		if err != nil && lineno != 0 {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcodes = asm.Opcodes[:0]
	asm.address = 0
	asm.macro = nil
	asm.Labels = make(map[string]int, 16)
	asm.Macros = make(map[string]*Macro)
	asm.Constants = make(map[string]int, 16)
	for name, value := range asm.predefine {
		asm.Constants[name] = value
	}

	// Pass 1: expand macros, assign addresses, collect symbols.
	for scanner.Scan() {
		line = strings.TrimSpace(scanner.Text())
		lineno++

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, line)
		}

		var words []string
		words, err = asm.tokenize(line)
		if err != nil {
			return
		}
		if len(words) == 0 {
			continue
		}

		// Label definition, both 'name:' and 'name :' forms.
		for len(words) > 0 {
			var label string
			if strings.HasSuffix(words[0], ":") && len(words[0]) > 1 {
				label = words[0][:len(words[0])-1]
				words = words[1:]
			} else if len(words) > 1 && words[1] == ":" {
				label = words[0]
				words = words[2:]
			} else {
				break
			}

			_, ok := asm.Labels[label]
			if ok {
				err = ErrLabelDuplicate
				return
			}
			asm.Labels[label] = asm.address
		}
		if len(words) == 0 {
			continue
		}

		var handled bool
		handled, err = asm.directive(words, lineno)
		if err != nil {
			return
		}
		if handled {
			continue
		}

		if asm.macro != nil {
			asm.macro.Body = append(asm.macro.Body, words)
			continue
		}

		if _, ok := asm.Macros[words[0]]; ok {
			err = asm.expandMacro(words[0], words[1:], lineno)
			if err != nil {
				return
			}
			continue
		}

		err = asm.emit(words, lineno)
		if err != nil {
			return
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}

	if asm.macro != nil {
		err = ErrMacroLonely
		return
	}

	// Pass 2: resolve symbols and encode. Errors here carry the
	// program address rather than the raw line.
	line = ""
	lineno = 0
	for n := range asm.Opcodes {
		op := &asm.Opcodes[n]

		words := slices.Clone(op.Words)
		for k, word := range words {
			if value, ok := asm.Constants[word]; ok {
				words[k] = strconv.Itoa(value)
			} else if value, ok := asm.Labels[word]; ok {
				words[k] = strconv.Itoa(value)
			}
		}

		op.Byte, err = asm.encode(words)
		if err != nil {
			err = &ErrEncode{Address: op.Address, Words: op.Words, Err: err}
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcodes),
	}

	return
}

// encode translates one resolved instruction into its byte encoding.
func (asm *Assembler) encode(words []string) (code uint8, err error) {
	mnemonic := strings.ToUpper(words[0])
	operands := words[1:]

	// Bare ALU mnemonic
	if op, ok := aluOps[mnemonic]; ok {
		return uint8(MakeCodeAlu(op)), nil
	}

	// Jump mnemonic; the target must already be in R0
	if cond, ok := jumpConds[mnemonic]; ok {
		if len(operands) != 0 {
			return 0, &ErrJumpOperand{Mnemonic: mnemonic, Operand: operands[0]}
		}
		return uint8(MakeCodeJump(cond)), nil
	}

	switch mnemonic {
	case "OP":
		if len(operands) == 0 {
			return 0, ErrOperandMissing
		}
		op, ok := aluOps[strings.ToUpper(operands[0])]
		if !ok {
			return 0, ErrAluOpInvalid
		}
		return uint8(MakeCodeAlu(op)), nil

	case "LDI":
		if len(operands) == 0 {
			return 0, ErrOperandMissing
		}
		var value int
		value, err = asm.resolve(operands[0])
		if err != nil {
			return 0, err
		}
		if value < 0 || value > 0x3F {
			return 0, ErrLdiRange
		}
		return uint8(MakeCodeLdi(uint8(value))), nil

	case "MOV":
		if len(operands) != 2 {
			return 0, ErrOperandMissing
		}
		dst, ok := regIndexes[strings.ToUpper(operands[0])]
		if !ok {
			return 0, ErrRegisterInvalid
		}
		src, ok := regIndexes[strings.ToUpper(operands[1])]
		if !ok {
			return 0, ErrRegisterInvalid
		}
		return uint8(MakeCodeCopy(src, dst)), nil

	case "IN":
		if len(operands) == 0 {
			return 0, ErrOperandMissing
		}
		dst, ok := regIndexes[strings.ToUpper(operands[0])]
		if !ok {
			return 0, ErrRegisterInvalid
		}
		return uint8(MakeCodeCopy(REG_IO, dst)), nil

	case "OUT":
		if len(operands) == 0 {
			return 0, ErrOperandMissing
		}
		src, ok := regIndexes[strings.ToUpper(operands[0])]
		if !ok {
			return 0, ErrRegisterInvalid
		}
		return uint8(MakeCodeCopy(src, REG_IO)), nil

	case "HLT":
		return uint8(CodeHalt), nil
	}

	return 0, ErrMnemonicInvalid(mnemonic)
}

// joinWords renders source tokens for error messages.
func joinWords(words []string) string {
	return strings.Join(words, " ")
}
