package powershell

import "strings"

// escapingSignature is what PowerShell prints when an unescaped special
// character split the script into extra positional arguments. Matched
// literally and case-sensitively.
const escapingSignature = "A positional parameter cannot be found that accepts argument"

// classify turns stderr output into an error. A nil return means success.
func classify(r *Result) error {
	switch {
	case strings.Contains(r.Stderr, escapingSignature):
		return &EscapingError{Stderr: r.Stderr}
	case r.Stderr != "":
		return &ShellCommandFailedError{Stderr: r.Stderr}
	default:
		return nil
	}
}
