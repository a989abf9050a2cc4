package drivertest

import (
	"vkx/driver"
)

// Features is the feature set reported by devices made with NewDevice.
type Features struct {
	Name              string
	SamplerAnisotropy bool
	GeometryShader    bool
}

// PhysicalDevice is a scripted driver.PhysicalDevice.
type PhysicalDevice struct {
	Props      driver.Properties
	FeatureSet driver.Features
	Families   []driver.QueueFamily

	// PresentFamilies lists the family indices that can present.
	PresentFamilies  []uint32
	DeviceExtensions []string

	SurfaceSupportErr error
	ExtensionsErr     error
	CreateDeviceErr   error
	WaitIdleErr       error

	// DeviceInfo is a copy of the last CreateDevice argument.
	DeviceInfo *driver.DeviceInfo

	drv *Driver
}

var _ driver.PhysicalDevice = (*PhysicalDevice)(nil)

// NewDevice returns a device of the given type with a single queue family
// supporting graphics, compute, transfer and presentation, and the
// swapchain extension.
func NewDevice(name string, deviceType driver.DeviceType) *PhysicalDevice {
	return &PhysicalDevice{
		Props: driver.Properties{
			Name:       name,
			Type:       deviceType,
			APIVersion: driver.Version{Major: 1, Minor: 3},
			Memory:     1 << 30,
		},
		FeatureSet: Features{Name: name, SamplerAnisotropy: true},
		Families: []driver.QueueFamily{
			{Index: 0, Flags: driver.QueueGraphics | driver.QueueCompute | driver.QueueTransfer, Count: 16},
		},
		PresentFamilies:  []uint32{0},
		DeviceExtensions: []string{SwapchainExtension},
	}
}

// WithFamilies replaces the queue families and the families able to
// present.
func (p *PhysicalDevice) WithFamilies(families []driver.QueueFamily, present ...uint32) *PhysicalDevice {
	p.Families = families
	p.PresentFamilies = present
	return p
}

func (p *PhysicalDevice) record(call string) {
	if p.drv != nil {
		p.drv.record(call)
	}
}

// Properties implements driver.PhysicalDevice.
func (p *PhysicalDevice) Properties() driver.Properties {
	p.record("GetPhysicalDeviceProperties:" + p.Props.Name)
	return p.Props
}

// Features implements driver.PhysicalDevice.
func (p *PhysicalDevice) Features() driver.Features {
	p.record("GetPhysicalDeviceFeatures:" + p.Props.Name)
	return p.FeatureSet
}

// QueueFamilies implements driver.PhysicalDevice.
func (p *PhysicalDevice) QueueFamilies() []driver.QueueFamily {
	return append([]driver.QueueFamily(nil), p.Families...)
}

// SurfaceSupport implements driver.PhysicalDevice.
func (p *PhysicalDevice) SurfaceSupport(family uint32, surface driver.Surface) (bool, error) {
	if p.SurfaceSupportErr != nil {
		return false, p.SurfaceSupportErr
	}
	if s, ok := surface.(*Surface); ok && s.destroyed {
		p.drv.misused("surface support queried on destroyed surface")
	}
	for _, f := range p.PresentFamilies {
		if f == family {
			return true, nil
		}
	}
	return false, nil
}

// Extensions implements driver.PhysicalDevice.
func (p *PhysicalDevice) Extensions() ([]string, error) {
	if p.ExtensionsErr != nil {
		return nil, p.ExtensionsErr
	}
	return append([]string(nil), p.DeviceExtensions...), nil
}

// CreateDevice implements driver.PhysicalDevice.
func (p *PhysicalDevice) CreateDevice(info driver.DeviceInfo) (driver.Device, error) {
	p.record("CreateDevice:" + p.Props.Name)

	info.Queues = append([]driver.QueueCreateInfo(nil), info.Queues...)
	info.Layers = append([]string(nil), info.Layers...)
	info.Extensions = append([]string(nil), info.Extensions...)
	p.DeviceInfo = &info

	if p.CreateDeviceErr != nil {
		return nil, p.CreateDeviceErr
	}
	p.drv.acquire("device")
	return &Device{pd: p}, nil
}

// Inner returns the PhysicalDevice itself.
func (p *PhysicalDevice) Inner() interface{} {
	return p
}

// Device is the fake driver.Device.
type Device struct {
	pd        *PhysicalDevice
	destroyed bool
}

// Queue implements driver.Device.
func (d *Device) Queue(family, index uint32) driver.Queue {
	d.pd.record("GetDeviceQueue")
	return &Queue{family: family, Index: index}
}

// WaitIdle implements driver.Device.
func (d *Device) WaitIdle() error {
	d.pd.record("DeviceWaitIdle")
	return d.pd.WaitIdleErr
}

// Destroy implements driver.Device.
func (d *Device) Destroy() {
	d.pd.record("DestroyDevice")
	if d.destroyed {
		d.pd.drv.misused("device destroyed twice")
		return
	}
	d.destroyed = true
	d.pd.drv.release("device")
}

// Inner returns the Device itself.
func (d *Device) Inner() interface{} {
	return d
}

// Queue is the fake driver.Queue.
type Queue struct {
	family uint32
	Index  uint32
}

// Family implements driver.Queue.
func (q *Queue) Family() uint32 {
	return q.family
}

// Inner returns the Queue itself.
func (q *Queue) Inner() interface{} {
	return q
}
