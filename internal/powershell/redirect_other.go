//go:build !windows

package powershell

func newPlatformRedirector() Redirector {
	return nativeRedirector{}
}

// nativeRedirector is used where there is no redirection layer to override.
type nativeRedirector struct{}

func (nativeRedirector) Mode() (Mode, error) { return ModeNative, nil }

func (nativeRedirector) SetMode(Mode) error { return nil }
