package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// browserCommand returns the launcher for goos, or false when there is none.
func browserCommand(goos, target string) (string, []string, bool) {
	switch goos {
	case "darwin":
		return "open", []string{target}, true
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{target}, true
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, true
	default:
		return "", nil, false
	}
}

// OpenBrowser opens an http(s) URL, such as a source's package page, in the default browser.
func OpenBrowser(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: not a web URL: %q", ErrInvalidArgument, target)
	}

	name, args, ok := browserCommand(getRuntime(), u.String())
	if !ok {
		return fmt.Errorf("%w: no browser launcher for %s", ErrNotImplemented, getRuntime())
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
