// Package app assembles a GPU execution context: platform, instance,
// physical device, window surface, logical device and queues. Everything is
// acquired in order by New and released in reverse order by Destroy.
package app

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vkx/device"
	"vkx/driver"
	"vkx/instance"
	"vkx/platform"
	"vkx/queues"
)

// State is the lifecycle state of an Application.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	ShuttingDown
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case ShuttingDown:
		return "shutting down"
	case Destroyed:
		return "destroyed"
	}
	return "unknown"
}

// Options configures New.
type Options struct {
	Identity instance.Identity

	// Layers are requested at instance and device creation. Leave empty
	// outside debug builds.
	Layers []string

	// DeviceExtensions are required on top of the swapchain extension.
	DeviceExtensions []string

	Window platform.WindowConfig

	Platform platform.Platform
	Driver   driver.Driver

	// Score overrides device.DefaultRanking when set.
	Score device.ScoreFunc

	Logger logrus.FieldLogger
}

// Application owns the execution context. Its accessors may be read
// concurrently once New returned; Destroy must not race with them.
type Application struct {
	identity instance.Identity
	logger   logrus.FieldLogger
	state    State

	instance   driver.Instance
	deviceInfo *device.Info
	device     driver.Device
	queues     *queues.Manager
	window     platform.Window

	// acquired is released back to front.
	acquired []resource
}

type resource struct {
	name    string
	release func() error
	// fatal stops the unwind when release fails, abandoning this and
	// every earlier resource.
	fatal bool
}

// New builds an Application. On failure every resource acquired so far is
// released and the returned Application is nil.
func New(opts Options) (*Application, error) {
	if opts.Platform == nil {
		return nil, errors.New("app: no platform")
	}
	if opts.Driver == nil {
		return nil, errors.New("app: no driver")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	a := &Application{
		identity: opts.Identity,
		logger:   logger.WithField("app", opts.Identity.Name),
	}

	a.setState(Initializing)
	if err := a.init(opts); err != nil {
		if uerr := a.release(); uerr != nil {
			a.logger.WithError(uerr).Error("Failed to release partially initialised context")
		}
		a.setState(Destroyed)
		return nil, err
	}
	a.setState(Ready)

	return a, nil
}

func (a *Application) init(opts Options) error {
	p := opts.Platform
	if err := p.Init(); err != nil {
		return errors.Wrap(err, "init platform")
	}
	a.acquire("platform", func() error {
		p.Terminate()
		return nil
	})

	extensions, err := instance.RequiredExtensions(p)
	if err != nil {
		return err
	}

	if err := opts.Driver.Load(p.Loader()); err != nil {
		return &instance.InstanceCreationError{
			Result: driver.ResultOf(err),
			Err:    errors.Wrap(err, "load driver"),
		}
	}

	instances := instance.NewFactory(opts.Driver)
	instances.Logger = a.logger
	inst, err := instances.Create(opts.Identity, opts.Layers, extensions)
	if err != nil {
		return err
	}
	a.instance = inst
	a.acquire("instance", func() error {
		inst.Destroy()
		a.instance = nil
		return nil
	})

	selector := device.NewSelector()
	selector.Logger = a.logger
	if opts.Score != nil {
		selector.Score = opts.Score
	}
	info, err := selector.Select(inst)
	if err != nil {
		return err
	}
	a.deviceInfo = info

	window, err := p.NewWindow(opts.Window)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	a.window = window
	a.acquire("window", func() error {
		a.window = nil
		return errors.Wrap(window.Destroy(), "destroy window")
	})

	if err := window.Bind(inst); err != nil {
		var perr *platform.PlatformError
		if errors.As(err, &perr) {
			return err
		}
		return &platform.PlatformError{Op: "create surface", Result: driver.ResultOf(err), Err: err}
	}

	resolver := queues.NewResolver()
	resolver.Logger = a.logger
	indices, err := resolver.Resolve(info.Device, info.QueueFamilies, window.Surface())
	if err != nil {
		return err
	}

	devices := device.NewFactory()
	devices.Logger = a.logger
	extensions = append([]string{device.SwapchainExtension}, opts.DeviceExtensions...)
	dev, err := devices.Create(info, queues.CreateInfos(indices), extensions, opts.Layers)
	if err != nil {
		return err
	}
	a.device = dev
	a.acquireFatal("device", func() error {
		if err := dev.WaitIdle(); err != nil {
			return errors.Wrap(err, "wait for device idle")
		}
		dev.Destroy()
		a.device = nil
		a.queues = nil
		return nil
	})

	a.queues = queues.NewManager(dev, indices)
	return nil
}

// Destroy waits for the device to be idle and releases everything in
// reverse acquisition order. If the idle wait fails the error is returned
// and the remaining resources are abandoned. Other release failures do not
// stop the teardown; they are returned together. Calling Destroy again is
// a no-op.
func (a *Application) Destroy() error {
	if a.state != Ready {
		return nil
	}

	a.setState(ShuttingDown)
	err := a.release()
	a.setState(Destroyed)
	return err
}

func (a *Application) acquire(name string, release func() error) {
	a.push(resource{name: name, release: release})
}

func (a *Application) acquireFatal(name string, release func() error) {
	a.push(resource{name: name, release: release, fatal: true})
}

func (a *Application) push(r resource) {
	a.acquired = append(a.acquired, r)
	a.logger.WithField("resource", r.name).Debug("Acquired")
}

func (a *Application) release() error {
	var errs []error
	for len(a.acquired) > 0 {
		last := len(a.acquired) - 1
		r := a.acquired[last]

		err := r.release()
		if err != nil && r.fatal {
			abandoned := make([]string, 0, len(a.acquired))
			for i := last; i >= 0; i-- {
				abandoned = append(abandoned, a.acquired[i].name)
			}
			a.acquired = nil
			a.logger.WithError(err).WithField("abandoned", abandoned).Error("Teardown aborted")
			return stderrors.Join(append(errs, errors.Wrapf(err, "release %s", r.name))...)
		}

		a.acquired = a.acquired[:last]
		if err != nil {
			a.logger.WithError(err).WithField("resource", r.name).Error("Release failed")
			errs = append(errs, errors.Wrapf(err, "release %s", r.name))
			continue
		}
		a.logger.WithField("resource", r.name).Debug("Released")
	}
	return stderrors.Join(errs...)
}

func (a *Application) setState(s State) {
	a.state = s
	a.logger.WithField("state", s.String()).Debug("Application state changed")
}

// State returns the lifecycle state.
func (a *Application) State() State {
	return a.state
}

// Name returns the application name.
func (a *Application) Name() string {
	return a.identity.Name
}

// Identity returns the identity the instance was created with.
func (a *Application) Identity() instance.Identity {
	return a.identity
}

// Instance returns the API instance, nil once destroyed.
func (a *Application) Instance() driver.Instance {
	return a.instance
}

// PhysicalDevice returns the selected physical device.
func (a *Application) PhysicalDevice() driver.PhysicalDevice {
	if a.deviceInfo == nil {
		return nil
	}
	return a.deviceInfo.Device
}

// DeviceInfo returns the snapshot taken when the device was selected.
func (a *Application) DeviceInfo() *device.Info {
	return a.deviceInfo
}

// Device returns the logical device, nil once destroyed.
func (a *Application) Device() driver.Device {
	return a.device
}

// Queues returns the device queues, nil once destroyed.
func (a *Application) Queues() *queues.Manager {
	return a.queues
}

// Window returns the window, nil once destroyed.
func (a *Application) Window() platform.Window {
	return a.window
}
