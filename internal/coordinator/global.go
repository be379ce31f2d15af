package coordinator

import (
	"errors"
	"sync"

	"github.com/yanet-platform/bgtasks/internal/host"
)

var (
	// ErrAlreadyInitialized is returned by Init when the process-wide
	// coordinator already exists.
	ErrAlreadyInitialized = errors.New("coordinator: already initialized")
	// ErrNotInitialized is returned by Instance before Init is called.
	ErrNotInitialized = errors.New("coordinator: not initialized")
)

var (
	instance   *Coordinator
	instanceMu sync.Mutex
)

// Init creates the process-wide coordinator. It can succeed only once per
// process; the instance is never torn down or recreated. Prefer passing the
// returned coordinator explicitly to the code that needs it.
func Init(h host.Host, opts ...Option) (*Coordinator, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return nil, ErrAlreadyInitialized
	}

	coordinator, err := New(h, opts...)
	if err != nil {
		return nil, err
	}
	instance = coordinator

	return instance, nil
}

// Instance returns the process-wide coordinator created by Init.
func Instance() (*Coordinator, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance == nil {
		return nil, ErrNotInitialized
	}
	return instance, nil
}
