package main

import (
	"bufio"
	"io"
)

// readKeys hands each byte from r to the console until it asks to quit or r
// is exhausted.
func readKeys(r io.Reader, c *console) {
	br := bufio.NewReader(r)
	for {
		key, err := br.ReadByte()
		if err != nil {
			return
		}
		if c.handleKey(key) {
			return
		}
	}
}
