// Package sdlplatform implements platform.Platform with SDL2.
package sdlplatform

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/xlab/linmath"

	"vkx/driver"
	"vkx/platform"
)

// Platform is the SDL2 video subsystem with the Vulkan loader loaded.
type Platform struct {
	refs platform.RefCount
}

var _ platform.Platform = (*Platform)(nil)

// New returns an uninitialised SDL platform.
func New() *Platform {
	return &Platform{}
}

// Init implements platform.Platform.
func (p *Platform) Init() error {
	return p.refs.Acquire(func() error {
		if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
			return &platform.PlatformError{
				Op:     "sdl.Init",
				Result: driver.ErrorInitializationFailed,
				Err:    err,
			}
		}

		if err := sdl.VulkanLoadLibrary(""); err != nil {
			sdl.Quit()
			return &platform.PlatformError{
				Op:     "sdl.VulkanLoadLibrary",
				Result: driver.ErrorIncompatibleDriver,
				Err:    err,
			}
		}
		return nil
	})
}

// Terminate implements platform.Platform.
func (p *Platform) Terminate() {
	p.refs.Release(func() {
		sdl.VulkanUnloadLibrary()
		sdl.Quit()
	})
}

// Loader implements platform.Platform.
func (p *Platform) Loader() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// RequiredExtensions implements platform.Platform.
func (p *Platform) RequiredExtensions() ([]string, error) {
	if !p.refs.Active() {
		return nil, &platform.PlatformError{
			Op:     "SDL_Vulkan_GetInstanceExtensions",
			Result: driver.ErrorInitializationFailed,
			Err:    errors.New("SDL is not initialised"),
		}
	}

	// SDL accepts a nil window once the Vulkan library is loaded.
	var window *sdl.Window
	extensions := window.VulkanGetInstanceExtensions()
	if len(extensions) == 0 {
		return nil, &platform.PlatformError{
			Op:     "SDL_Vulkan_GetInstanceExtensions",
			Result: driver.ErrorExtensionNotPresent,
			Err:    errors.New("SDL could not resolve needed extensions"),
		}
	}
	return extensions, nil
}

// NewWindow implements platform.Platform.
func (p *Platform) NewWindow(cfg platform.WindowConfig) (platform.Window, error) {
	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width()),
		int32(cfg.Height()),
		sdl.WINDOW_VULKAN)
	if err != nil {
		return nil, &platform.PlatformError{
			Op:  "sdl.CreateWindow",
			Err: err,
		}
	}

	return &Window{window: window, cfg: cfg}, nil
}

// Window is an SDL window created with Vulkan support.
type Window struct {
	window  *sdl.Window
	cfg     platform.WindowConfig
	surface driver.Surface
	closed  bool
}

var _ platform.Window = (*Window)(nil)

// Bind implements platform.Window.
func (w *Window) Bind(instance driver.Instance) error {
	if w.surface != nil {
		return errors.New("window is already bound to an instance")
	}

	surfacePtr, err := w.window.VulkanCreateSurface(instance.Inner())
	if err != nil {
		return errors.Wrap(err, "cannot create surface within SDL window")
	}

	w.surface = instance.SurfaceFromPointer(uintptr(surfacePtr))
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

// Size implements platform.Window.
func (w *Window) Size() linmath.Vec2 {
	width, height := w.window.GetSize()
	return linmath.Vec2{float32(width), float32(height)}
}

// ShouldClose implements platform.Window.
func (w *Window) ShouldClose() bool {
	return w.closed
}

// PollEvents drains the SDL event queue. A quit event or the escape key
// marks the window for closing.
func (w *Window) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.QuitEvent:
			w.closed = true
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				w.closed = true
			}
		}
	}
}

// Destroy implements platform.Window.
func (w *Window) Destroy() error {
	if w.surface != nil {
		w.surface.Destroy()
		w.surface = nil
	}
	if w.window == nil {
		return nil
	}
	err := w.window.Destroy()
	w.window = nil
	return errors.Wrap(err, "sdl.Window.Destroy")
}
