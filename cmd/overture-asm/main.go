package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/overturesoc/overture/cpu"
	"github.com/overturesoc/overture/emulator"
)

func main() {
	var disassemble bool
	var hexText bool
	var ioPseudo bool
	var ldiHex bool
	var aluNoOp bool
	var format string
	var output string
	var verbose bool

	flag.BoolVar(&disassemble, "d", false, "Disassemble the input instead of assembling")
	flag.BoolVar(&hexText, "hex", false, "Treat disassembler input as hex text")
	flag.BoolVar(&ioPseudo, "io-pseudo", false, "Render IO copies as MOV instead of IN/OUT")
	flag.BoolVar(&ldiHex, "ldi-hex", false, "Render LDI immediates in hex with a # prefix")
	flag.BoolVar(&aluNoOp, "alu-no-op", false, "Omit the OP prefix from ALU instructions")
	flag.StringVar(&format, "format", "hex", "Assembler output format: binary, hex, dump, or vhdl")
	flag.StringVar(&output, "o", "-", "Output file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: usage: overture-asm [flags] <input file>", os.Args[0])
	}
	input := flag.Arg(0)

	var data []byte
	var err error
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	var out []byte
	if disassemble {
		image := []uint8(data)
		if hexText {
			image, err = cpu.ParseHexText(string(data))
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}
		}
		dis := &cpu.Disassembler{
			IoPseudo: ioPseudo,
			LdiHex:   ldiHex,
			AluNoOp:  aluNoOp,
		}
		out = []byte(dis.Disassemble(image))
	} else {
		form, err := cpu.ParseFormat(format)
		if err != nil {
			log.Fatalf("%v: %v", format, err)
		}

		asm := &cpu.Assembler{Verbose: verbose}
		emulator.Predefines(asm)

		prog, err := asm.Parse(bytes.NewReader(data))
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}

		out, err = prog.Render(form)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}

		// Raw binary on a terminal is unreadable; fall back to hex
		// text like the original tool.
		if form == cpu.FORMAT_BINARY && output == "-" {
			out, _ = prog.Render(cpu.FORMAT_HEX)
		}
	}

	if output == "-" {
		fmt.Println(string(out))
	} else {
		if err := os.WriteFile(output, out, 0666); err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}
}
