package powershell

import "strings"

// Executable is the shell every command line starts with.
const Executable = "powershell.exe"

var flags = []string{
	// Hide the copyright banner.
	"-NoLogo",
	// Never prompt.
	"-NonInteractive",
	// Skip profile scripts.
	"-NoProfile",
	"-ExecutionPolicy Unrestricted",
	// PowerShell hangs when stdin is redirected unless input is disabled.
	"-InputFormat None",
}

// Flags returns the startup flags in the order they are emitted.
func Flags() []string {
	return append([]string(nil), flags...)
}

// BuildCommand wraps script in a PowerShell command line. Each double quote
// in script is escaped as \" so the script stays inside the quoted -Command
// argument. No other characters are escaped.
func BuildCommand(script string) string {
	var b strings.Builder
	b.WriteString(Executable)
	for _, flag := range flags {
		b.WriteByte(' ')
		b.WriteString(flag)
	}
	b.WriteString(` -Command "`)
	b.WriteString(strings.ReplaceAll(script, `"`, `\"`))
	b.WriteByte('"')
	return b.String()
}

// SplitCommandLine splits a command line into arguments the way Windows
// programs parse their command line: whitespace separates arguments outside
// quotes, backslashes are literal unless they precede a double quote, and
// inside quotes a doubled quote is a literal quote.
func SplitCommandLine(line string) []string {
	var (
		args        []string
		b           strings.Builder
		inQuotes    bool
		inArg       bool
		backslashes int
	)
	flushBackslashes := func() {
		for ; backslashes > 0; backslashes-- {
			b.WriteByte('\\')
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\':
			backslashes++
			inArg = true
		case c == '"':
			for n := backslashes / 2; n > 0; n-- {
				b.WriteByte('\\')
			}
			switch {
			case backslashes%2 == 1:
				b.WriteByte('"')
			case inQuotes && i+1 < len(line) && line[i+1] == '"':
				b.WriteByte('"')
				i++
			default:
				inQuotes = !inQuotes
			}
			backslashes = 0
			inArg = true
		case (c == ' ' || c == '\t') && !inQuotes:
			flushBackslashes()
			if inArg {
				args = append(args, b.String())
				b.Reset()
				inArg = false
			}
		default:
			flushBackslashes()
			b.WriteByte(c)
			inArg = true
		}
	}
	flushBackslashes()
	if inArg {
		args = append(args, b.String())
	}
	return args
}
