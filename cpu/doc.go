// Package cpu implements the Overture 8-bit processor and its assembler.
//
// The processor is a single-cycle design: a program counter (PC) indexing
// a 256-byte instruction ROM, seven 8-bit general registers (R0-R6), an
// ALU with a barrel shifter, and a condition unit driving conditional
// jumps. Register index 7 is not a register: it addresses the
// memory-mapped I/O port, with register R6 supplying the port address.
// Decoding an undefined instruction halts the processor permanently
// until an explicit Reset().
//
// The assembler provides the Overture assembly language, supporting
// macros, labels, equates, ORG, and compile-time expression evaluation.
// The disassembler is its configurable inverse, total over all 256
// instruction byte values.
package cpu
