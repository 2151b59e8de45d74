package io

// Gpio is the 5-bit general purpose I/O port at address 0x10. The
// external input pins are sampled into a latch on every Tick(); reads
// return the latch zero-extended to 8 bits. Writes store the low 5
// bits into the output register, which is externally visible but not
// read back through the bus.
type Gpio struct {
	Output uint8 // 5-bit output register.

	pins  uint8 // External input pins, set by the front-end.
	latch uint8 // Input latch sampled each tick.
}

var _ Peripheral = (*Gpio)(nil)

func (gpio *Gpio) Reset() {
	gpio.Output = 0
	gpio.pins = 0
	gpio.latch = 0
}

func (gpio *Gpio) Contains(addr uint8) bool {
	return addr == GPIO_ADDR
}

// SetInput drives the external input pins. The value becomes visible
// to the processor on the next Tick().
func (gpio *Gpio) SetInput(pins uint8) {
	gpio.pins = pins & 0x1F
}

func (gpio *Gpio) Read(addr uint8) uint8 {
	return gpio.latch
}

func (gpio *Gpio) Write(addr uint8, data uint8) {
	gpio.Output = data & 0x1F
}

func (gpio *Gpio) Tick() {
	gpio.latch = gpio.pins
}
