// Package io implements the Overture memory-mapped peripheral bus:
// 16 bytes of RAM, a 5-bit GPIO port, and three delay counters with
// microsecond, millisecond, and second tick granularity.
//
// The bus address space is 256 bytes, disjoint from program memory.
// In the hardware every inactive peripheral drives zero onto a shared
// read bus and the outputs are OR'd together; here that becomes an
// address-range dispatch with unmapped addresses reading 0 and
// discarding writes.
package io

import (
	"log"
)

// Peripheral address map.
const (
	RAM_BASE = uint8(0x00) // 16 bytes of scratch RAM
	RAM_SIZE = 16

	GPIO_ADDR = uint8(0x10) // 5-bit input latch / output register

	DELAY_US_ADDR = uint8(0x11)
	DELAY_MS_ADDR = uint8(0x12)
	DELAY_S_ADDR  = uint8(0x13)
)

// Ticks per counter decrement for each delay peripheral, from the
// 27 MHz reference clock of the source design.
const (
	DELAY_US_DIVISOR = 27
	DELAY_MS_DIVISOR = 27_000
	DELAY_S_DIVISOR  = 27_000_000
)

// Peripheral is one address-decoded device on the bus.
type Peripheral interface {
	Reset()
	Contains(addr uint8) bool
	Read(addr uint8) uint8
	Write(addr uint8, data uint8)
	Tick()
}

// Bus is the peripheral bus. It satisfies the processor's Port
// interface; Tick() must be called once per processor step to
// preserve the delay decrement cadence.
type Bus struct {
	Verbose bool

	Ram     Ram
	Gpio    Gpio
	DelayUs Delay
	DelayMs Delay
	DelayS  Delay

	peripherals []Peripheral
}

// NewBus creates a bus with the standard Overture peripheral set.
func NewBus() (bus *Bus) {
	bus = &Bus{
		DelayUs: Delay{Addr: DELAY_US_ADDR, Divisor: DELAY_US_DIVISOR},
		DelayMs: Delay{Addr: DELAY_MS_ADDR, Divisor: DELAY_MS_DIVISOR},
		DelayS:  Delay{Addr: DELAY_S_ADDR, Divisor: DELAY_S_DIVISOR},
	}
	bus.peripherals = []Peripheral{
		&bus.Ram, &bus.Gpio, &bus.DelayUs, &bus.DelayMs, &bus.DelayS,
	}
	bus.Reset()
	return
}

// Reset resets every peripheral.
func (bus *Bus) Reset() {
	for _, per := range bus.peripherals {
		per.Reset()
	}
}

// Read returns the value driven by the peripheral decoding the
// address, or 0 when no peripheral matches.
func (bus *Bus) Read(addr uint8) (data uint8) {
	for _, per := range bus.peripherals {
		if per.Contains(addr) {
			data |= per.Read(addr)
		}
	}
	if bus.Verbose {
		log.Printf("bus: read  %02X -> %02X", addr, data)
	}
	return
}

// Write forwards the data to the peripheral decoding the address;
// unmapped writes are discarded.
func (bus *Bus) Write(addr uint8, data uint8) {
	if bus.Verbose {
		log.Printf("bus: write %02X <- %02X", addr, data)
	}
	for _, per := range bus.peripherals {
		if per.Contains(addr) {
			per.Write(addr, data)
		}
	}
}

// Tick advances every peripheral by one clock: pending RAM writes
// land, the GPIO input pins are latched, and the delay dividers
// count down.
func (bus *Bus) Tick() {
	for _, per := range bus.peripherals {
		per.Tick()
	}
}
