//go:build linux

package main

import "golang.org/x/sys/unix"

// execBuffer copies assembled code into a fresh anonymous mapping and then
// flips it read+execute, so the writable and executable views never exist
// at the same time.
func execBuffer(code []byte) ([]byte, error) {
	mem, err := unix.Mmap(-1, 0, len(code),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return nil, err
	}
	return mem, nil
}

func freeBuffer(mem []byte) error {
	return unix.Munmap(mem)
}
