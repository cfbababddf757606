//go:build windows

package main

import (
	"os"

	"golang.org/x/term"
)

// listenForKeyboard puts the console in raw mode while keys are read
func listenForKeyboard(c *console) {
	fd := int(os.Stdin.Fd())
	saved, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, saved)

	readKeys(os.Stdin, c)
}
