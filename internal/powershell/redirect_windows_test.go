//go:build windows

package powershell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const testRedirectionToken = 42

type redirectCalls struct {
	calls      []string
	disableErr error
	revertErr  error
	wow64Err   error
}

func newTestWow64Redirector(t *testing.T, wow64, is64Bit bool) (*wow64Redirector, *redirectCalls) {
	t.Helper()
	rc := &redirectCalls{}
	r := &wow64Redirector{
		isWow64: func() (bool, error) {
			return wow64, rc.wow64Err
		},
		is64Bit: is64Bit,
		disableRedirection: func(oldValue *uintptr) error {
			rc.calls = append(rc.calls, "disable")
			if rc.disableErr != nil {
				return rc.disableErr
			}
			*oldValue = testRedirectionToken
			return nil
		},
		revertRedirection: func(oldValue uintptr) error {
			rc.calls = append(rc.calls, "revert")
			require.Equal(t, uintptr(testRedirectionToken), oldValue)
			return rc.revertErr
		},
	}
	return r, rc
}

func TestWow64RedirectorSetMode(t *testing.T) {
	tests := []struct {
		name        string
		wow64       bool
		is64Bit     bool
		mode        Mode
		unsupported bool
		calls       []string
	}{
		{name: "wow64 forced 64-bit disables", wow64: true, mode: ModeForced64, calls: []string{"disable"}},
		{name: "wow64 forced 32-bit is native", wow64: true, mode: ModeForced32},
		{name: "64-bit process forced 64-bit is native", is64Bit: true, mode: ModeForced64},
		{name: "64-bit process forced 32-bit", is64Bit: true, mode: ModeForced32, unsupported: true},
		{name: "32-bit os forced 64-bit", mode: ModeForced64, unsupported: true},
		{name: "32-bit os forced 32-bit is native", mode: ModeForced32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rc := newTestWow64Redirector(t, tt.wow64, tt.is64Bit)

			err := r.SetMode(tt.mode)
			mode, _ := r.Mode()
			if tt.unsupported {
				require.ErrorIs(t, err, ErrArchitectureUnsupported)
				require.Equal(t, ModeNative, mode)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.mode, mode)
			}
			require.Equal(t, tt.calls, rc.calls)
		})
	}
}

func TestWow64RedirectorRestoreReverts(t *testing.T) {
	r, rc := newTestWow64Redirector(t, true, false)

	require.NoError(t, r.SetMode(ModeForced64))
	require.True(t, r.disabled)

	require.NoError(t, r.SetMode(ModeNative))
	require.False(t, r.disabled)
	require.Zero(t, r.oldValue)
	require.Equal(t, []string{"disable", "revert"}, rc.calls)

	// Same mode again touches nothing.
	require.NoError(t, r.SetMode(ModeNative))
	require.Len(t, rc.calls, 2)
}

func TestWow64RedirectorFailures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("wow64 check", func(t *testing.T) {
		r, rc := newTestWow64Redirector(t, true, false)
		rc.wow64Err = boom
		require.ErrorIs(t, r.SetMode(ModeForced64), boom)
		require.Empty(t, rc.calls)
	})

	t.Run("disable", func(t *testing.T) {
		r, rc := newTestWow64Redirector(t, true, false)
		rc.disableErr = boom
		require.ErrorIs(t, r.SetMode(ModeForced64), boom)
		mode, _ := r.Mode()
		require.Equal(t, ModeNative, mode)
		require.False(t, r.disabled)
	})

	t.Run("revert", func(t *testing.T) {
		r, rc := newTestWow64Redirector(t, true, false)
		require.NoError(t, r.SetMode(ModeForced64))
		rc.revertErr = boom
		require.ErrorIs(t, r.SetMode(ModeNative), boom)
		mode, _ := r.Mode()
		require.Equal(t, ModeForced64, mode)
		require.True(t, r.disabled)
	})
}

func TestGuardWithWow64Redirector(t *testing.T) {
	r, rc := newTestWow64Redirector(t, true, false)
	g := NewGuard(r)

	err := g.Do(ArchX86_64, func() error {
		require.True(t, r.disabled)
		return nil
	})
	require.NoError(t, err)
	require.False(t, r.disabled)
	require.Equal(t, []string{"disable", "revert"}, rc.calls)

	var platformErr *PlatformStateError
	err = g.Do(ArchI386, func() error { return nil })
	require.NoError(t, err)

	r64, _ := newTestWow64Redirector(t, false, true)
	err = NewGuard(r64).Do(ArchI386, func() error {
		t.Fatal("body must not run")
		return nil
	})
	require.ErrorAs(t, err, &platformErr)
	require.Equal(t, "set", platformErr.Op)
	require.ErrorIs(t, err, ErrArchitectureUnsupported)
}
