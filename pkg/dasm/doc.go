// Package dasm implements the ARMv7-M back-end of a dynamic assembler.
//
// A host (a JIT or code generator) links this package in, feeds it a
// pre-compiled stream of 32-bit action words plus runtime operands, and
// gets back a contiguous block of ARMv7-M Thumb-2 machine code with every
// branch, label reference, PC-relative load and immediate slot patched.
//
// Encoding happens in three passes, always in this order:
//
//  1. Put (Pass 1) records one template invocation's action stream and its
//     runtime arguments, links label references into forward/backward
//     chains, range-checks immediates, and accumulates a per-section byte
//     offset estimate.
//  2. Link (Pass 2) runs once all templates have been Put: it collapses
//     alignment slack, turns every label's Pass-1 estimate into a final
//     absolute byte offset, rejects any PC label left undefined, and
//     reports the total code size the host must allocate.
//  3. Encode (Pass 3) fills a caller-supplied buffer of exactly that size,
//     emitting every 16/32-bit half-word and resolving every relocation.
//
// A State is single-threaded: exactly one goroutine may drive Put, Link
// and Encode for a given State, and callers must serialize their own
// access if a State is shared.
package dasm
