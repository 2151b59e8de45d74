package io

// Delay is one countdown peripheral. Writing its address loads the
// counter and restarts the divider; every Divisor ticks the counter
// decrements by one, saturating at 0. Reading returns the live
// counter, so a program can poll for zero.
type Delay struct {
	Addr    uint8  // Bus address of this instance.
	Divisor uint32 // Ticks per counter decrement.

	Counter uint8  // User-visible countdown value.
	divider uint32 // Ticks remaining until the next decrement.
}

var _ Peripheral = (*Delay)(nil)

func (delay *Delay) Reset() {
	delay.Counter = 0
	delay.divider = delay.Divisor
}

func (delay *Delay) Contains(addr uint8) bool {
	return addr == delay.Addr
}

func (delay *Delay) Read(addr uint8) uint8 {
	return delay.Counter
}

func (delay *Delay) Write(addr uint8, data uint8) {
	delay.Counter = data
	delay.divider = delay.Divisor
}

func (delay *Delay) Tick() {
	delay.divider--
	if delay.divider == 0 {
		delay.divider = delay.Divisor
		if delay.Counter > 0 {
			delay.Counter--
		}
	}
}
