//go:build !linux

package main

import "errors"

func execBuffer(code []byte) ([]byte, error) {
	return nil, errors.New("executable mappings are only wired up on linux")
}

func freeBuffer(mem []byte) error {
	return nil
}
