// Package device selects the physical device to use and creates the logical
// device on it.
package device

import (
	"fmt"
	"strings"

	"vkx/driver"
)

// SwapchainExtension is the device extension needed to present to a
// surface.
const SwapchainExtension = "VK_KHR_swapchain"

// Info is a snapshot of the selected physical device, taken once at
// selection time. It is never refreshed.
type Info struct {
	Device        driver.PhysicalDevice
	Properties    driver.Properties
	Features      driver.Features
	QueueFamilies []driver.QueueFamily
	Extensions    []string
	Score         int
}

// Name returns the device name.
func (i *Info) Name() string {
	return i.Properties.Name
}

// SupportsExtension reports whether the device advertised extension.
func (i *Info) SupportsExtension(extension string) bool {
	for _, e := range i.Extensions {
		if e == extension {
			return true
		}
	}
	return false
}

func (i *Info) String() string {
	return fmt.Sprintf("%s (%s, score %d)", i.Properties.Name, i.Properties.Type, i.Score)
}

// NoSuitableDeviceError is returned when no physical device can be
// selected.
type NoSuitableDeviceError struct {
	Result driver.Result
	Err    error
}

func (e *NoSuitableDeviceError) Error() string {
	return fmt.Sprintf("no suitable physical device: %v", e.Err)
}

func (e *NoSuitableDeviceError) Unwrap() error {
	return e.Err
}

// DeviceCreationError is returned when the logical device cannot be
// created.
type DeviceCreationError struct {
	Device string
	Result driver.Result
	// Missing names required extensions the device does not support.
	Missing []string
	Err     error
}

func (e *DeviceCreationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("create device on %q (%s): missing %s",
			e.Device, e.Result, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("create device on %q (%s): %v", e.Device, e.Result, e.Err)
}

func (e *DeviceCreationError) Unwrap() error {
	return e.Err
}
