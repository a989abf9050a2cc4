// Package platformtest provides a scripted platform.Platform for tests.
package platformtest

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/xlab/linmath"

	"vkx/driver"
	"vkx/driver/drivertest"
	"vkx/platform"
)

// Platform is a fake windowing subsystem.
type Platform struct {
	// Extensions is returned by RequiredExtensions.
	Extensions []string

	InitErr       error
	ExtensionsErr error
	NewWindowErr  error
	BindErr       error
	DestroyErr    error

	// ProcAddr is returned by Loader.
	ProcAddr unsafe.Pointer

	// Recorder receives lifecycle calls; share it with a drivertest.Driver
	// to observe the global order.
	Recorder *drivertest.Recorder

	// Windows holds every window created, in order.
	Windows []*Window

	refs       platform.RefCount
	InitCalls  int
	Terminated int
}

var _ platform.Platform = (*Platform)(nil)

// New returns a Platform reporting extensions.
func New(extensions ...string) *Platform {
	return &Platform{Extensions: extensions}
}

func (p *Platform) record(call string) {
	if p.Recorder != nil {
		p.Recorder.Record(call)
	}
}

// Init implements platform.Platform.
func (p *Platform) Init() error {
	p.record("PlatformInit")
	return p.refs.Acquire(func() error {
		if p.InitErr != nil {
			return &platform.PlatformError{Op: "init", Result: driver.ErrorInitializationFailed, Err: p.InitErr}
		}
		p.InitCalls++
		return nil
	})
}

// Terminate implements platform.Platform.
func (p *Platform) Terminate() {
	p.record("PlatformTerminate")
	p.refs.Release(func() { p.Terminated++ })
}

// Active reports whether the platform holds at least one reference.
func (p *Platform) Active() bool {
	return p.refs.Active()
}

// Loader implements platform.Platform.
func (p *Platform) Loader() unsafe.Pointer {
	return p.ProcAddr
}

// RequiredExtensions implements platform.Platform.
func (p *Platform) RequiredExtensions() ([]string, error) {
	p.record("RequiredExtensions")
	if !p.refs.Active() {
		return nil, &platform.PlatformError{Op: "extensions", Err: errors.New("not initialised")}
	}
	if p.ExtensionsErr != nil {
		return nil, &platform.PlatformError{Op: "extensions", Result: driver.ErrorExtensionNotPresent, Err: p.ExtensionsErr}
	}
	return append([]string(nil), p.Extensions...), nil
}

// NewWindow implements platform.Platform.
func (p *Platform) NewWindow(cfg platform.WindowConfig) (platform.Window, error) {
	p.record("CreateWindow")
	if p.NewWindowErr != nil {
		return nil, &platform.PlatformError{Op: "create window", Err: p.NewWindowErr}
	}
	w := &Window{Config: cfg, p: p}
	p.Windows = append(p.Windows, w)
	return w, nil
}

// LiveWindows returns the number of windows not yet destroyed.
func (p *Platform) LiveWindows() int {
	n := 0
	for _, w := range p.Windows {
		if !w.Destroyed {
			n++
		}
	}
	return n
}

// Window is a fake platform.Window.
type Window struct {
	Config    platform.WindowConfig
	Destroyed bool
	Closing   bool
	Polls     int

	p       *Platform
	surface driver.Surface
}

// Bind implements platform.Window.
func (w *Window) Bind(instance driver.Instance) error {
	if w.p.BindErr != nil {
		return w.p.BindErr
	}
	w.surface = instance.SurfaceFromPointer(uintptr(len(w.p.Windows)))
	return nil
}

// Surface implements platform.Window.
func (w *Window) Surface() driver.Surface {
	return w.surface
}

// Title implements platform.Window.
func (w *Window) Title() string {
	return w.Config.Title
}

// Size implements platform.Window.
func (w *Window) Size() linmath.Vec2 {
	return w.Config.Size
}

// ShouldClose implements platform.Window.
func (w *Window) ShouldClose() bool {
	return w.Closing
}

// PollEvents implements platform.Window.
func (w *Window) PollEvents() {
	w.Polls++
}

// Destroy implements platform.Window.
func (w *Window) Destroy() error {
	w.p.record("DestroyWindow")
	if w.surface != nil {
		w.surface.Destroy()
		w.surface = nil
	}
	w.Destroyed = true
	return w.p.DestroyErr
}
