// Package platform defines the windowing collaborator: a process-wide
// Platform handle that owns the windowing library, and the Windows it
// creates. Backends live in platform/glfwplatform and platform/sdlplatform.
package platform

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/xlab/linmath"

	"vkx/driver"
)

// Platform is a process-wide windowing subsystem. It is passed by reference
// to everything that needs it; there is no hidden global state beyond what
// the windowing library itself keeps.
type Platform interface {
	// Init initialises the windowing library. Calls are reference counted:
	// only the first one does any work.
	Init() error

	// Terminate releases one reference taken by Init and shuts the library
	// down when the last one is released. Unbalanced calls are no-ops.
	Terminate()

	// Loader returns the vkGetInstanceProcAddr entry point known to the
	// windowing library, or nil to let the driver find the loader.
	Loader() unsafe.Pointer

	// RequiredExtensions returns the instance extensions the platform needs
	// to present to a window surface.
	RequiredExtensions() ([]string, error)

	// NewWindow creates a window without a client API context.
	NewWindow(cfg WindowConfig) (Window, error)
}

// Window is a platform window that can be bound to an instance to obtain a
// surface.
type Window interface {
	// Bind creates the window surface for instance. It may be called once.
	Bind(instance driver.Instance) error

	// Surface returns the surface created by Bind, or nil.
	Surface() driver.Surface

	Title() string
	Size() linmath.Vec2

	ShouldClose() bool
	PollEvents()

	// Destroy destroys the surface, then the window. The instance the
	// window was bound to must still be alive.
	Destroy() error
}

// WindowConfig holds the construction parameters of a window.
type WindowConfig struct {
	Title string
	// Size is the requested width and height in screen coordinates.
	Size linmath.Vec2
}

// Width returns the requested width, at least 1.
func (c WindowConfig) Width() int {
	return atLeastOne(c.Size[0])
}

// Height returns the requested height, at least 1.
func (c WindowConfig) Height() int {
	return atLeastOne(c.Size[1])
}

func atLeastOne(v float32) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// PlatformError reports a failure of the windowing subsystem.
type PlatformError struct {
	Op     string
	Result driver.Result
	Err    error
}

func (e *PlatformError) Error() string {
	if e.Result != driver.Success {
		return fmt.Sprintf("platform: %s (%s): %v", e.Op, e.Result, e.Err)
	}
	return fmt.Sprintf("platform: %s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// RefCount guards a process-wide initialisation.
type RefCount struct {
	mu sync.Mutex
	n  int
}

// Acquire runs init when no reference is held and takes a reference if it
// succeeds.
func (r *RefCount) Acquire(init func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.n == 0 {
		if err := init(); err != nil {
			return err
		}
	}
	r.n++
	return nil
}

// Release drops a reference and runs term when it was the last one.
// Releasing without a reference does nothing.
func (r *RefCount) Release(term func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.n == 0 {
		return
	}
	r.n--
	if r.n == 0 {
		term()
	}
}

// Active reports whether at least one reference is held.
func (r *RefCount) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n > 0
}
