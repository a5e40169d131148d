// Package browser hands web URLs to the platform's opener, detached from
// the TUI process so the terminal stays usable.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

const maxURLLength = 2048

// Opener launches URLs with a single external command.
type Opener struct {
	command string
}

// NewOpener picks the platform opener unless an explicit command overrides it.
func NewOpener(command string) *Opener {
	if command == "" {
		command = defaultOpener()
	}
	return &Opener{command: command}
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// Open validates rawURL and launches it detached. Only plain web URLs are
// accepted; anything else is rejected before a process is spawned.
func (o *Opener) Open(rawURL string) error {
	normalized, err := ValidateURL(rawURL)
	if err != nil {
		return err
	}

	if o.command == "" {
		return fmt.Errorf("no opener available")
	}

	cmd := exec.Command(o.command, normalized)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", o.command, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// ValidateURL normalizes input into a web URL, defaulting to https when the
// scheme is missing.
func ValidateURL(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > maxURLLength {
		return "", fmt.Errorf("URL too long (max %d characters)", maxURLLength)
	}

	// Basic character sanitization
	if strings.ContainsAny(input, "<>\"'`") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		if strings.Contains(input, "://") {
			return "", fmt.Errorf("URL must use http or https protocol")
		}
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}

	return parsed.String(), nil
}
