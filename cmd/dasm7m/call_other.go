//go:build !(linux && arm)

package main

import "errors"

func callThumb(mem []byte) (uint32, error) {
	return 0, errors.New("running assembled Thumb-2 code requires a 32-bit ARM linux host; dumping instead")
}
