package powershell

import (
	"runtime"
	"sync"
)

// Redirector reads and sets the process-wide redirection mode. Implementations
// need not be safe for concurrent use; a Guard serializes every call.
type Redirector interface {
	Mode() (Mode, error)
	SetMode(Mode) error
}

// defaultGuard owns the platform redirector. Executors share it unless they
// are given their own, so there is a single lock for the whole process.
var defaultGuard = NewGuard(newPlatformRedirector())

// Guard scopes changes to the redirection mode to a single call.
type Guard struct {
	mu         sync.Mutex
	redirector Redirector
}

// NewGuard returns a guard that owns r. Nothing else should touch r after
// this call.
func NewGuard(r Redirector) *Guard {
	return &Guard{redirector: r}
}

// Do runs body with the redirection layer forced to arch and restores the
// previous mode afterwards, on every exit path.
//
// ArchUnspecified runs body directly. Such a call neither locks nor touches
// the redirector, so it sees whatever mode another caller may have in place
// at that moment.
//
// Calls with a concrete arch hold the guard's lock for the whole of body, so
// their windows never overlap. The goroutine is also pinned to its OS thread
// because Windows tracks redirection per thread and creates child processes
// on the calling thread.
func (g *Guard) Do(arch Architecture, body func() error) (err error) {
	if arch == ArchUnspecified {
		return body()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	prev, err := g.redirector.Mode()
	if err != nil {
		return &PlatformStateError{Op: "read", Err: err}
	}
	want := arch.mode()
	if err := g.redirector.SetMode(want); err != nil {
		return &PlatformStateError{Op: "set", Mode: want, Err: err}
	}
	defer func() {
		if rerr := g.redirector.SetMode(prev); rerr != nil {
			err = &PlatformStateError{Op: "restore", Mode: prev, Err: rerr, BodyErr: err}
		}
	}()

	return body()
}
