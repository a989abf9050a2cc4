// Package driver defines the boundary between the bootstrap code and the
// graphics API. The production implementation lives in driver/vulkan; tests
// use driver/drivertest.
//
// Handles returned by a Driver are owned by whoever created them and must be
// destroyed in reverse creation order: devices and surfaces before the
// instance they were created from.
package driver

import "unsafe"

// Driver is the entry point of a graphics API implementation.
type Driver interface {
	// Load points the driver at the loader entry point
	// (vkGetInstanceProcAddr) and resolves the global commands. A nil
	// procAddr lets the driver find the system loader on its own. Calling
	// Load more than once is a no-op.
	Load(procAddr unsafe.Pointer) error

	// InstanceLayers lists the instance layers available on the system.
	InstanceLayers() ([]string, error)

	// CreateInstance creates a new API instance. The slices in info are only
	// read during the call.
	CreateInstance(info InstanceInfo) (Instance, error)
}

// Instance is a live API instance.
type Instance interface {
	// PhysicalDevices enumerates the physical devices visible to the
	// instance, in the driver's enumeration order.
	PhysicalDevices() ([]PhysicalDevice, error)

	// SurfaceFromPointer adopts a surface created by a windowing library for
	// this instance. The returned Surface destroys it through this instance.
	SurfaceFromPointer(ptr uintptr) Surface

	// Destroy destroys the instance. Every object derived from it must
	// already be destroyed.
	Destroy()

	// Inner returns the underlying API handle.
	Inner() interface{}
}

// PhysicalDevice is a GPU (or CPU / virtual fallback) visible to an
// instance.
type PhysicalDevice interface {
	Properties() Properties

	// Features returns the driver specific feature set supported by the
	// device. It can be handed back to CreateDevice unchanged.
	Features() Features

	QueueFamilies() []QueueFamily

	// SurfaceSupport reports whether the given queue family can present to
	// surface.
	SurfaceSupport(family uint32, surface Surface) (bool, error)

	// Extensions lists the device level extensions supported.
	Extensions() ([]string, error)

	// CreateDevice creates a logical device bound to this physical device.
	CreateDevice(info DeviceInfo) (Device, error)

	Inner() interface{}
}

// Device is a logical device: a live session on one physical device.
type Device interface {
	// Queue retrieves queue index of the given family. The family must have
	// been requested at creation.
	Queue(family, index uint32) Queue

	// WaitIdle blocks until the device has no outstanding work.
	WaitIdle() error

	// Destroy destroys the device. It must be idle.
	Destroy()

	Inner() interface{}
}

// Queue is a command submission queue retrieved from a Device.
type Queue interface {
	Family() uint32
	Inner() interface{}
}

// Surface is a presentable target bound to a window.
type Surface interface {
	Destroy()
	Inner() interface{}
}

// Features is an opaque, driver specific set of device features.
type Features interface{}
