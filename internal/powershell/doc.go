// Package powershell runs scripts under Windows PowerShell.
//
// It builds a fixed, non-interactive command line around the script, can pin
// the WOW64 file-system redirection layer to a requested architecture for the
// duration of the call, and turns PowerShell failures that a plain exit-code
// check misses into typed errors.
//
// One-off usage:
//
//	result, err := powershell.Exec(ctx, `Get-Item "C:\Windows"`, powershell.Options{})
//
// Forcing the 64-bit shell from a 32-bit process, failing on non-zero exit:
//
//	result, err := powershell.ExecStrict(ctx, script, powershell.Options{
//	    Architecture: powershell.ArchX86_64,
//	    RunOptions: powershell.RunOptions{
//	        Timeout: 5 * time.Minute,
//	    },
//	})
//
// Only double quotes in the script are escaped. Any other character that the
// PowerShell argument parser treats specially must be escaped by the caller.
package powershell
