package powershell

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/require"
)

const prefix = "powershell.exe -NoLogo -NonInteractive -NoProfile -ExecutionPolicy Unrestricted -InputFormat None -Command "

func TestBuildCommandGolden(t *testing.T) {
	t.Parallel()
	script := `Get-ChildItem "C:\Program Files" | Where-Object { $_.Name -eq "Common Files" }`
	golden.RequireEqual(t, []byte(BuildCommand(script)))
}

func TestBuildCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "empty script",
			script: "",
			want:   prefix + `""`,
		},
		{
			name:   "no quotes",
			script: "Get-Date",
			want:   prefix + `"Get-Date"`,
		},
		{
			name:   "single quotes untouched",
			script: "Write-Output 'hi there'",
			want:   prefix + `"Write-Output 'hi there'"`,
		},
		{
			name:   "double quotes escaped",
			script: `Write-Output "hi"`,
			want:   prefix + `"Write-Output \"hi\""`,
		},
		{
			name:   "adjacent double quotes",
			script: `""`,
			want:   prefix + `"\"\""`,
		},
		{
			name:   "other metacharacters untouched",
			script: "$a = 1; & { $a } | Out-Null `n",
			want:   prefix + `"$a = 1; & { $a } | Out-Null ` + "`n" + `"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, BuildCommand(tt.script))
		})
	}
}

func TestBuildCommandEscapesEveryQuote(t *testing.T) {
	t.Parallel()

	for _, script := range []string{`"`, `a"b"c`, `"""`, `x = "1" + "2"`} {
		got := BuildCommand(script)
		require.True(t, strings.HasPrefix(got, prefix), got)

		body := strings.TrimSuffix(strings.TrimPrefix(got, prefix+`"`), `"`)
		require.Equal(t, strings.Count(script, `"`), strings.Count(body, `\"`))
		require.Equal(t, script, strings.ReplaceAll(body, `\"`, `"`))
	}
}

func TestBuildCommandWithoutQuotesIsUnchanged(t *testing.T) {
	t.Parallel()

	for _, script := range []string{"Get-Process", "1..10 | % { $_ * 2 }", "C:\\temp\\x.ps1", "multi\nline"} {
		require.Equal(t, prefix+`"`+script+`"`, BuildCommand(script))
	}
}

func TestFlagsOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{
		"-NoLogo",
		"-NonInteractive",
		"-NoProfile",
		"-ExecutionPolicy Unrestricted",
		"-InputFormat None",
	}, Flags())

	// Callers cannot reorder the package's flags through the returned slice.
	f := Flags()
	f[0] = "-Interactive"
	require.Equal(t, "-NoLogo", Flags()[0])
}

func TestSplitCommandLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "empty", line: "", want: nil},
		{name: "whitespace only", line: " \t ", want: nil},
		{name: "plain words", line: "a b  c", want: []string{"a", "b", "c"}},
		{name: "quoted space", line: `a "b c" d`, want: []string{"a", "b c", "d"}},
		{name: "empty quoted arg", line: `a "" b`, want: []string{"a", "", "b"}},
		{name: "escaped quote", line: `"say \"hi\""`, want: []string{`say "hi"`}},
		{name: "literal backslashes", line: `C:\a\b "C:\Program Files\x"`, want: []string{`C:\a\b`, `C:\Program Files\x`}},
		{name: "even backslashes before quote", line: `"a\\" b`, want: []string{`a\`, "b"}},
		{name: "odd backslashes before quote", line: `"a\\\"b"`, want: []string{`a\"b`}},
		{name: "doubled quote inside quotes", line: `"a""b"`, want: []string{`a"b`}},
		{name: "trailing backslash", line: `a\`, want: []string{`a\`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, SplitCommandLine(tt.line))
		})
	}
}

func TestSplitBuiltCommand(t *testing.T) {
	t.Parallel()

	script := `Write-Output "it's $env:USERNAME" | Out-File "C:\out.txt"`
	args := SplitCommandLine(BuildCommand(script))
	require.Equal(t, []string{
		"powershell.exe",
		"-NoLogo",
		"-NonInteractive",
		"-NoProfile",
		"-ExecutionPolicy", "Unrestricted",
		"-InputFormat", "None",
		"-Command", script,
	}, args)
}
