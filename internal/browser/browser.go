// Package browser opens display pages in the local default browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Commander is an interface for executing commands (for testing)
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander executes actual commands
type RealCommander struct{}

// Start executes a command and starts it
func (RealCommander) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	return cmd.Start()
}

var defaultCommander Commander = RealCommander{}

// Opener opens display pages of one server
type Opener struct {
	BaseURL   string
	commander Commander
	goos      string
}

// NewOpener returns an Opener for the server at baseURL
func NewOpener(baseURL string) *Opener {
	return &Opener{BaseURL: baseURL, commander: defaultCommander, goos: runtime.GOOS}
}

// Page opens the named display page ("" or "index" for the start page)
func (o *Opener) Page(page string) (string, error) {
	url := PageURL(o.BaseURL, page)
	return url, OpenWithCommander(url, o.commander, o.goos)
}

// PageURL joins a server base URL and a display page name
func PageURL(baseURL, page string) string {
	url := strings.TrimSuffix(baseURL, "/") + "/"
	if page != "" && page != "index" {
		url += strings.TrimPrefix(page, "/")
	}
	return url
}

// Open opens the specified URL in the default browser
func Open(url string) error {
	return OpenWithCommander(url, defaultCommander, runtime.GOOS)
}

// OpenWithCommander opens the URL using the specified commander and OS (for testing)
func OpenWithCommander(url string, commander Commander, goos string) error {
	var name string
	var args []string

	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		name = "xdg-open"
		args = []string{url}
	case "darwin": // macOS
		name = "open"
		args = []string{url}
	case "windows":
		name = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	default:
		return fmt.Errorf("unsupported platform: %s", goos)
	}

	return commander.Start(name, args...)
}
