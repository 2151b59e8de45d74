package io

// Ram is the 16-byte scratch memory at addresses 0x00-0x0F. Reads are
// combinational; writes are synchronous, landing on the Tick()
// following the Write() call.
type Ram struct {
	Data [RAM_SIZE]uint8

	pending bool
	addr    uint8
	data    uint8
}

var _ Peripheral = (*Ram)(nil)

func (ram *Ram) Reset() {
	clear(ram.Data[:])
	ram.pending = false
}

func (ram *Ram) Contains(addr uint8) bool {
	return addr >= RAM_BASE && addr < RAM_BASE+RAM_SIZE
}

func (ram *Ram) Read(addr uint8) uint8 {
	if !ram.Contains(addr) {
		return 0
	}
	return ram.Data[addr-RAM_BASE]
}

// Write latches one pending write; a second Write before the next
// Tick replaces it, matching a single write port.
func (ram *Ram) Write(addr uint8, data uint8) {
	if !ram.Contains(addr) {
		return
	}
	ram.pending = true
	ram.addr = addr - RAM_BASE
	ram.data = data
}

func (ram *Ram) Tick() {
	if ram.pending {
		ram.Data[ram.addr] = ram.data
		ram.pending = false
	}
}
