package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/overturesoc/overture/cpu"
	"github.com/overturesoc/overture/emulator"
)

func main() {
	var compile string
	var image string
	var hexText bool
	var limit int
	var gpio bool
	var verbose bool

	flag.StringVar(&compile, "c", "", "Assembly source file to compile and run")
	flag.StringVar(&image, "i", "", "Program image file to run")
	flag.BoolVar(&hexText, "hex", false, "Treat the image file as hex text")
	flag.IntVar(&limit, "n", 10_000_000, "Step limit")
	flag.BoolVar(&gpio, "g", false, "Interactive GPIO: keys 1-5 toggle input pins, q quits")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		asm := &cpu.Assembler{Verbose: verbose}
		emulator.Predefines(asm)
		prog, err := asm.Parse(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		emu.LoadProgram(prog)

	case len(image) != 0:
		data, err := os.ReadFile(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		bytes := []uint8(data)
		if hexText {
			bytes, err = cpu.ParseHexText(string(data))
			if err != nil {
				log.Fatalf("%v: %v", image, err)
			}
		}
		emu.Load(bytes)

	default:
		log.Fatalf("%v: one of -c or -i is required", os.Args[0])
	}

	var err error
	if gpio {
		err = runInteractive(emu, limit)
	} else {
		err = emu.Run(limit)
	}
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(emu.Cpu.String())
	fmt.Printf(" gpio: %02X\n", emu.Bus.Gpio.Output)
}

// runInteractive steps the machine while polling the terminal for
// GPIO input: keys '1'-'5' toggle the input pins, 'q' stops. Output
// latch changes are echoed.
func runInteractive(emu *emulator.Emulator, limit int) (err error) {
	err = enterRawTerm()
	if err != nil {
		return
	}
	defer exitRawTerm()

	pins := uint8(0)
	output := emu.Bus.Gpio.Output

	key := make([]byte, 1)
	for n := 0; n < limit; n++ {
		if count, _ := os.Stdin.Read(key); count > 0 {
			switch key[0] {
			case 'q':
				return
			case '1', '2', '3', '4', '5':
				pins ^= 1 << (key[0] - '1')
				emu.Bus.Gpio.SetInput(pins)
				fmt.Printf("gpio: in  %05b\r\n", pins)
			}
		}

		if emu.Step() {
			fmt.Printf("halted after %v steps\r\n", emu.Cpu.Steps)
			return
		}

		if emu.Bus.Gpio.Output != output {
			output = emu.Bus.Gpio.Output
			fmt.Printf("gpio: out %05b\r\n", output)
		}
	}

	err = emulator.ErrStepLimit
	return
}
