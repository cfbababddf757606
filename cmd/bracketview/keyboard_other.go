//go:build !linux && !darwin && !windows

package main

import "os"

// listenForKeyboard reads line-buffered input; keys take effect on Enter
func listenForKeyboard(c *console) {
	readKeys(os.Stdin, c)
}
