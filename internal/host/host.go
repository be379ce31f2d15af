// Package host defines the lifecycle host capability consumed by background
// work coordinators and provides an in-process implementation of it.
//
// A lifecycle host keeps track of objects that must finish their work before
// the process shuts down. On shutdown the host notifies every registered
// object through Stop, and each object unregisters itself once it is done.
package host

// Object is work registered with a Host that must complete before shutdown
// finishes.
type Object interface {
	// Stop requests the object to shut down. If immediate is true, Stop must
	// not return until the object is done and has unregistered itself.
	Stop(immediate bool)
}

// Host accepts registrations of objects that delay shutdown.
type Host interface {
	// RegisterObject registers the object with the host.
	RegisterObject(object Object)
	// UnregisterObject releases an object previously registered with the
	// host. Objects call it once, when their work is done.
	UnregisterObject(object Object)
}
