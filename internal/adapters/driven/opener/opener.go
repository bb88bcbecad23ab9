// Package opener opens files in the platform's default application.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command returns the command that opens path on goos.
func Command(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// Open starts the default viewer for path without waiting for it.
func Open(path string) error {
	cmd, err := Command(runtime.GOOS, path)
	if err != nil {
		return err
	}
	return cmd.Start()
}
