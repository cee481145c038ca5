//go:build windows

package powershell

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32                        = windows.NewLazySystemDLL("kernel32.dll")
	procWow64DisableWow64FsRedirection = modkernel32.NewProc("Wow64DisableWow64FsRedirection")
	procWow64RevertWow64FsRedirection  = modkernel32.NewProc("Wow64RevertWow64FsRedirection")
)

func newPlatformRedirector() Redirector {
	return &wow64Redirector{
		isWow64:            isWow64Process,
		is64Bit:            unsafe.Sizeof(uintptr(0)) == 8,
		disableRedirection: disableWow64FsRedirection,
		revertRedirection:  revertWow64FsRedirection,
	}
}

// wow64Redirector drives WOW64 file-system redirection. A 32-bit process on
// 64-bit Windows reaches the 64-bit System32 only with redirection disabled;
// a native process has nothing to redirect.
type wow64Redirector struct {
	mode     Mode
	disabled bool
	// oldValue is the opaque token returned by Wow64DisableWow64FsRedirection.
	oldValue uintptr

	isWow64            func() (bool, error)
	is64Bit            bool
	disableRedirection func(oldValue *uintptr) error
	revertRedirection  func(oldValue uintptr) error
}

func (r *wow64Redirector) Mode() (Mode, error) {
	return r.mode, nil
}

func (r *wow64Redirector) SetMode(m Mode) error {
	if m == r.mode {
		return nil
	}

	wow64, err := r.isWow64()
	if err != nil {
		return err
	}

	switch m {
	case ModeNative:
		if err := r.enable(); err != nil {
			return err
		}
	case ModeForced64:
		switch {
		case wow64:
			if err := r.disable(); err != nil {
				return err
			}
		case !r.is64Bit:
			// 32-bit process outside WOW64: the OS itself is 32-bit.
			return fmt.Errorf("64-bit shell requested: %w", ErrArchitectureUnsupported)
		}
	case ModeForced32:
		if r.is64Bit && !wow64 {
			return fmt.Errorf("32-bit shell requested from a 64-bit process: %w", ErrArchitectureUnsupported)
		}
		if err := r.enable(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mode %s", m)
	}

	r.mode = m
	return nil
}

func (r *wow64Redirector) disable() error {
	if r.disabled {
		return nil
	}
	if err := r.disableRedirection(&r.oldValue); err != nil {
		return err
	}
	r.disabled = true
	return nil
}

func (r *wow64Redirector) enable() error {
	if !r.disabled {
		return nil
	}
	if err := r.revertRedirection(r.oldValue); err != nil {
		return err
	}
	r.disabled = false
	r.oldValue = 0
	return nil
}

func disableWow64FsRedirection(oldValue *uintptr) error {
	if err := procWow64DisableWow64FsRedirection.Find(); err != nil {
		return err
	}
	ret, _, callErr := procWow64DisableWow64FsRedirection.Call(uintptr(unsafe.Pointer(oldValue)))
	if ret == 0 {
		return fmt.Errorf("Wow64DisableWow64FsRedirection: %w", callErr)
	}
	return nil
}

func revertWow64FsRedirection(oldValue uintptr) error {
	if err := procWow64RevertWow64FsRedirection.Find(); err != nil {
		return err
	}
	ret, _, callErr := procWow64RevertWow64FsRedirection.Call(oldValue)
	if ret == 0 {
		return fmt.Errorf("Wow64RevertWow64FsRedirection: %w", callErr)
	}
	return nil
}

func isWow64Process() (bool, error) {
	var wow64 bool
	if err := windows.IsWow64Process(windows.CurrentProcess(), &wow64); err != nil {
		return false, fmt.Errorf("IsWow64Process: %w", err)
	}
	return wow64, nil
}
