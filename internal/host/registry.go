package host

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handle identifies an object registered with a Registry.
type Handle struct {
	ID           uuid.UUID
	RegisteredAt time.Time
}

// Registry is an in-process Host. It stores registered objects, and supports
// stopping all of them and waiting until every one has unregistered, in a
// thread-safe manner.
type Registry struct {
	objects map[Object]Handle
	idle    chan struct{} // closed while no objects are registered
	mu      sync.Mutex

	logger *log.Logger
}

var _ Host = (*Registry)(nil)

// NewRegistry creates and returns a new empty Registry.
func NewRegistry(logger *log.Logger) *Registry {
	idle := make(chan struct{})
	close(idle)
	return &Registry{
		objects: make(map[Object]Handle),
		idle:    idle,
		logger:  logger,
	}
}

// RegisterObject adds the object to the registry. Registering an object that
// is already registered is a no-op.
func (m *Registry) RegisterObject(object Object) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if handle, exists := m.objects[object]; exists {
		m.logger.Warn("object is already registered", log.Stringer("handle", handle.ID))
		return
	}

	if len(m.objects) == 0 {
		// Leaving the idle state, waiters must block from now on.
		m.idle = make(chan struct{})
	}

	handle := Handle{
		ID:           uuid.New(),
		RegisteredAt: time.Now(),
	}
	m.objects[object] = handle

	m.logger.Debug("object registered", log.Stringer("handle", handle.ID))
}

// UnregisterObject removes the object from the registry. Unknown objects are
// ignored.
func (m *Registry) UnregisterObject(object Object) {
	m.mu.Lock()
	defer m.mu.Unlock()

	handle, exists := m.objects[object]
	if !exists {
		m.logger.Warn("unregistering unknown object")
		return
	}
	delete(m.objects, object)

	m.logger.Debug(
		"object unregistered",
		log.Stringer("handle", handle.ID),
		log.Duration("lifetime", time.Since(handle.RegisteredAt)),
	)

	if len(m.objects) == 0 {
		close(m.idle)
	}
}

// Handle returns the handle of a registered object.
func (m *Registry) Handle(object Object) (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	handle, exists := m.objects[object]
	return handle, exists
}

// Len returns the number of registered objects.
func (m *Registry) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.objects)
}

// StopAll notifies every registered object that the host is shutting down.
// Objects are stopped concurrently and StopAll returns once every Stop call
// has returned. With immediate set this means every object has finished.
func (m *Registry) StopAll(immediate bool) {
	m.mu.Lock()
	objects := make([]Object, 0, len(m.objects))
	for object := range m.objects {
		objects = append(objects, object)
	}
	m.mu.Unlock()

	m.logger.Info(
		"stopping registered objects",
		log.Int("objects", len(objects)),
		log.Bool("immediate", immediate),
	)

	// Stop must be called outside of the lock: immediate stops block until
	// the object unregisters itself.
	var wg errgroup.Group
	for _, object := range objects {
		wg.Go(func() error {
			object.Stop(immediate)
			return nil
		})
	}
	_ = wg.Wait()
}

// Wait blocks until no objects are registered or ctx is done.
func (m *Registry) Wait(ctx context.Context) error {
	m.mu.Lock()
	idle := m.idle
	m.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
