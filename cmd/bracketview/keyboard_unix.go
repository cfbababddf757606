//go:build linux || darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// listenForKeyboard switches the terminal to unbuffered, no-echo input for
// the lifetime of the key loop. Output processing stays on so log lines keep
// their carriage returns.
func listenForKeyboard(c *console) {
	fd := int(os.Stdin.Fd())
	saved, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return
	}

	raw := *saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN], raw.Cc[unix.VTIME] = 1, 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return
	}
	defer unix.IoctlSetTermios(fd, ioctlSetTermios, saved)

	readKeys(os.Stdin, c)
}
