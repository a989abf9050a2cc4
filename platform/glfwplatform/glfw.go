// Package glfwplatform implements platform.Platform with GLFW.
//
// GLFW must only be used from the main thread; callers should lock it with
// runtime.LockOSThread in an init function.
package glfwplatform

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/xlab/linmath"

	"vkx/driver"
	"vkx/platform"
)

// Platform is the GLFW windowing subsystem.
type Platform struct {
	refs platform.RefCount
}

var _ platform.Platform = (*Platform)(nil)

// New returns an uninitialised GLFW platform.
func New() *Platform {
	return &Platform{}
}

// Init implements platform.Platform.
func (p *Platform) Init() error {
	return p.refs.Acquire(func() error {
		if err := glfw.Init(); err != nil {
			return &platform.PlatformError{
				Op:     "glfw.Init",
				Result: driver.ErrorInitializationFailed,
				Err:    err,
			}
		}

		if !glfw.VulkanSupported() {
			glfw.Terminate()
			return &platform.PlatformError{
				Op:     "glfw.VulkanSupported",
				Result: driver.ErrorIncompatibleDriver,
				Err:    errors.New("no Vulkan loader found"),
			}
		}
		return nil
	})
}

// Terminate implements platform.Platform.
func (p *Platform) Terminate() {
	p.refs.Release(glfw.Terminate)
}

// Loader implements platform.Platform.
func (p *Platform) Loader() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

// RequiredExtensions implements platform.Platform.
func (p *Platform) RequiredExtensions() ([]string, error) {
	if !p.refs.Active() {
		return nil, &platform.PlatformError{
			Op:     "glfwGetRequiredInstanceExtensions",
			Result: driver.ErrorInitializationFailed,
			Err:    errors.New("GLFW is not initialised"),
		}
	}

	extensions, err := requiredExtensions()
	if err != nil {
		return nil, &platform.PlatformError{
			Op:     "glfwGetRequiredInstanceExtensions",
			Result: driver.ErrorInitializationFailed,
			Err:    err,
		}
	}
	if len(extensions) == 0 {
		return nil, &platform.PlatformError{
			Op:     "glfwGetRequiredInstanceExtensions",
			Result: driver.ErrorExtensionNotPresent,
			Err:    errors.New("GLFW could not resolve needed extensions"),
		}
	}
	return extensions, nil
}

// requiredExtensions asks GLFW through a hidden window, as no window exists
// yet when the instance is created.
func requiredExtensions() ([]string, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(1, 1, "", nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating hidden window")
	}
	defer window.Destroy()

	return window.GetRequiredInstanceExtensions(), nil
}

// NewWindow implements platform.Platform.
func (p *Platform) NewWindow(cfg platform.WindowConfig) (platform.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(cfg.Width(), cfg.Height(), cfg.Title, nil, nil)
	if err != nil {
		return nil, &platform.PlatformError{
			Op:  "glfw.CreateWindow",
			Err: err,
		}
	}

	return &Window{window: window, cfg: cfg}, nil
}

// Window is a GLFW window.
type Window struct {
	window  *glfw.Window
	cfg     platform.WindowConfig
	surface driver.Surface
}

var _ platform.Window = (*Window)(nil)

// Bind implements platform.Window.
func (w *Window) Bind(instance driver.Instance) error {
	if w.surface != nil {
		return errors.New("window is already bound to an instance")
	}

	surfacePtr, err := w.window.CreateWindowSurface(instance.Inner(), nil)
	if err != nil {
		return errors.Wrap(err, "cannot create surface within GLFW window")
	}

	w.surface = instance.SurfaceFromPointer(surfacePtr)
	return nil
}

// Surface implements platform.Window.
func (w *Window) Surface() driver.Surface {
	return w.surface
}

// Title implements platform.Window.
func (w *Window) Title() string {
	return w.cfg.Title
}

// Size returns the current framebuffer size.
func (w *Window) Size() linmath.Vec2 {
	width, height := w.window.GetFramebufferSize()
	return linmath.Vec2{float32(width), float32(height)}
}

// ShouldClose implements platform.Window.
func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

// PollEvents implements platform.Window.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// Destroy implements platform.Window.
func (w *Window) Destroy() error {
	if w.surface != nil {
		w.surface.Destroy()
		w.surface = nil
	}
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	return nil
}
