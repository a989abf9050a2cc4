package vulkan

import (
	vk "github.com/vulkan-go/vulkan"

	"vkx/driver"
)

// Instance wraps a vk.Instance.
type Instance struct {
	handle vk.Instance
}

var _ driver.Instance = (*Instance)(nil)

// PhysicalDevices implements driver.Instance.
func (i *Instance) PhysicalDevices() ([]driver.PhysicalDevice, error) {
	var deviceCount uint32
	res := vk.EnumeratePhysicalDevices(i.handle, &deviceCount, nil)
	if err := check("vkEnumeratePhysicalDevices", res); err != nil {
		return nil, err
	}
	if deviceCount == 0 {
		return nil, nil
	}

	handles := make([]vk.PhysicalDevice, deviceCount)
	res = vk.EnumeratePhysicalDevices(i.handle, &deviceCount, handles)
	if err := check("vkEnumeratePhysicalDevices", res); err != nil {
		return nil, err
	}

	devices := make([]driver.PhysicalDevice, 0, deviceCount)
	for _, handle := range handles[:deviceCount] {
		devices = append(devices, &PhysicalDevice{handle: handle})
	}
	return devices, nil
}

// SurfaceFromPointer implements driver.Instance.
func (i *Instance) SurfaceFromPointer(ptr uintptr) driver.Surface {
	return &Surface{
		instance: i.handle,
		handle:   vk.SurfaceFromPointer(ptr),
	}
}

// Destroy implements driver.Instance.
func (i *Instance) Destroy() {
	vk.DestroyInstance(i.handle, nil)
}

// Inner returns the vk.Instance.
func (i *Instance) Inner() interface{} {
	return i.handle
}

// Surface wraps a vk.Surface together with the instance that owns it.
type Surface struct {
	instance vk.Instance
	handle   vk.Surface
}

var _ driver.Surface = (*Surface)(nil)

// Destroy implements driver.Surface.
func (s *Surface) Destroy() {
	if s.handle != vk.NullSurface {
		vk.DestroySurface(s.instance, s.handle, nil)
		s.handle = vk.NullSurface
	}
}

// Inner returns the vk.Surface.
func (s *Surface) Inner() interface{} {
	return s.handle
}
