// Package browser hands media links to the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Normalize resolves scheme-relative links and rejects anything that is not
// an absolute http or https URL.
func Normalize(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if strings.HasPrefix(rawURL, "//") {
		rawURL = "https:" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return u.String(), nil
}

// Command builds the platform command that opens rawURL without starting it.
func Command(rawURL string) (*exec.Cmd, error) {
	u, err := Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", u), nil
	case "windows":
		// rundll32 avoids cmd /c start and its shell interpretation
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u), nil
	default:
		return exec.Command("xdg-open", u), nil
	}
}

func Open(rawURL string) error {
	cmd, err := Command(rawURL)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	// Reap the launcher so it does not linger as a zombie.
	go cmd.Wait()
	return nil
}
