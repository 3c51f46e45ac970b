//go:build linux && arm

package main

import "unsafe"

// callThumb jumps into the Thumb-2 code at the start of mem and returns
// its r0. Bit 0 of the target address selects Thumb state. The double
// indirection builds a Go func value whose code pointer is the mapping;
// it only holds up for a leaf function taking no arguments, which is all
// the demo template emits.
func callThumb(mem []byte) (uint32, error) {
	addr := uintptr(unsafe.Pointer(&mem[0])) | 1
	entry := unsafe.Pointer(&addr)
	f := *(*func() uint32)(unsafe.Pointer(&entry))
	return f(), nil
}
