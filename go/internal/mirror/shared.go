package mirror

import (
	"fmt"
	"sync"
)

// The process-wide shared mirror. A viewer process maintains exactly
// one mirror of the store, with explicit init and teardown, instead of
// ad hoc module state.

var (
	sharedMu sync.Mutex
	shared   *Mirror
	teardown func()
)

// InitShared installs the process-wide mirror along with the teardown
// hook that stops whatever feeds it (WebSocket reader, listener).
func InitShared(m *Mirror, stop func()) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		return fmt.Errorf("shared mirror already initialized")
	}
	shared = m
	teardown = stop
	return nil
}

// Shared returns the process-wide mirror, or nil before InitShared.
func Shared() *Mirror {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return shared
}

// CloseShared runs the teardown hook and discards the shared mirror.
func CloseShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		return
	}
	if teardown != nil {
		teardown()
	}
	shared = nil
	teardown = nil
}
