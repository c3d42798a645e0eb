package auth

import (
	"context"
	"os/exec"
	"runtime"
)

// URLOpener opens an authorization URL in an external browser surface.
type URLOpener interface {
	Open(ctx context.Context, url string) error
}

// SystemBrowser opens URLs with the platform's default browser.
type SystemBrowser struct{}

// Open launches the URL without waiting for the browser to exit.
func (SystemBrowser) Open(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	default: // linux and the BSDs
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	return cmd.Start()
}
