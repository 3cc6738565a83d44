// Package clipboard copies snippets to the system clipboard and prepares them
// for embedding in browser copy scripts.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// IsAvailable checks if clipboard functionality is available on this system.
func IsAvailable() bool {
	_, err := getClipboardCommand()
	return err == nil
}

// getClipboardCommand returns the command that writes stdin to the clipboard.
func getClipboardCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy"), nil
		}
	case "linux":
		// Try xclip first, fall back to xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard"), nil
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input"), nil
		}
	}
	return nil, ErrClipboardUnavailable
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(text string) error {
	cmd, err := getClipboardCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// scriptReplacer escapes the characters that are special inside a JavaScript
// template literal. Backslash must be first.
var scriptReplacer = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`$`, `\$`,
	`</`, `<\/`,
)

// EscapeForScript escapes text for use inside a JavaScript template literal
// that sits in an HTML <script> element.
func EscapeForScript(text string) string {
	return scriptReplacer.Replace(text)
}

// ScriptLiteral returns text as a complete JavaScript template literal.
func ScriptLiteral(text string) string {
	return "`" + EscapeForScript(text) + "`"
}
