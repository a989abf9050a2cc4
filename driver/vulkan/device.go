package vulkan

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vkx/driver"
)

const knownQueueFlags = driver.QueueGraphics | driver.QueueCompute |
	driver.QueueTransfer | driver.QueueSparseBinding

// PhysicalDevice wraps a vk.PhysicalDevice.
type PhysicalDevice struct {
	handle vk.PhysicalDevice
}

var _ driver.PhysicalDevice = (*PhysicalDevice)(nil)

// Properties implements driver.PhysicalDevice.
func (p *PhysicalDevice) Properties() driver.Properties {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(p.handle, &properties)
	properties.Deref()

	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.handle, &memoryProperties)
	memoryProperties.Deref()

	var memory uint64
	for i := uint32(0); i < memoryProperties.MemoryHeapCount; i++ {
		memoryProperties.MemoryHeaps[i].Deref()
		memory += uint64(memoryProperties.MemoryHeaps[i].Size)
	}

	return driver.Properties{
		Name:          vk.ToString(properties.DeviceName[:]),
		Type:          deviceType(properties.DeviceType),
		VendorID:      properties.VendorID,
		DeviceID:      properties.DeviceID,
		APIVersion:    driver.UnpackVersion(properties.ApiVersion),
		DriverVersion: properties.DriverVersion,
		Memory:        memory,
	}
}

func deviceType(t vk.PhysicalDeviceType) driver.DeviceType {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return driver.DeviceTypeIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return driver.DeviceTypeDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return driver.DeviceTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return driver.DeviceTypeCPU
	}
	return driver.DeviceTypeOther
}

// Features implements driver.PhysicalDevice. The returned value is a
// vk.PhysicalDeviceFeatures.
func (p *PhysicalDevice) Features() driver.Features {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.handle, &features)
	features.Deref()
	return features
}

// QueueFamilies implements driver.PhysicalDevice.
func (p *PhysicalDevice) QueueFamilies() []driver.QueueFamily {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(p.handle, &queueFamilyCount, nil)

	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(p.handle, &queueFamilyCount, queueFamilies)

	families := make([]driver.QueueFamily, 0, queueFamilyCount)
	for i, family := range queueFamilies {
		family.Deref()
		families = append(families, driver.QueueFamily{
			Index: uint32(i),
			Flags: driver.QueueFlags(family.QueueFlags) & knownQueueFlags,
			Count: family.QueueCount,
		})
	}
	return families
}

// SurfaceSupport implements driver.PhysicalDevice.
func (p *PhysicalDevice) SurfaceSupport(family uint32, surface driver.Surface) (bool, error) {
	handle, ok := surface.Inner().(vk.Surface)
	if !ok {
		return false, errors.Errorf("surface %T is not a Vulkan surface", surface.Inner())
	}

	var hasPresent vk.Bool32
	res := vk.GetPhysicalDeviceSurfaceSupport(p.handle, family, handle, &hasPresent)
	if err := check("vkGetPhysicalDeviceSurfaceSupportKHR", res); err != nil {
		return false, err
	}
	return hasPresent.B(), nil
}

// Extensions implements driver.PhysicalDevice.
func (p *PhysicalDevice) Extensions() ([]string, error) {
	var extensionsCount uint32
	res := vk.EnumerateDeviceExtensionProperties(p.handle, "", &extensionsCount, nil)
	if err := check("vkEnumerateDeviceExtensionProperties", res); err != nil {
		return nil, err
	}

	availableExtensions := make([]vk.ExtensionProperties, extensionsCount)
	res = vk.EnumerateDeviceExtensionProperties(p.handle, "", &extensionsCount, availableExtensions)
	if err := check("vkEnumerateDeviceExtensionProperties", res); err != nil {
		return nil, err
	}

	extensions := make([]string, 0, extensionsCount)
	for _, extension := range availableExtensions {
		extension.Deref()
		extensions = append(extensions, vk.ToString(extension.ExtensionName[:]))
	}
	return extensions, nil
}

// CreateDevice implements driver.PhysicalDevice. info.Features must be nil
// or a vk.PhysicalDeviceFeatures as returned by Features.
func (p *PhysicalDevice) CreateDevice(info driver.DeviceInfo) (driver.Device, error) {
	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, 0, len(info.Queues))
	for _, q := range info.Queues {
		queueCreateInfos = append(queueCreateInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.Family,
			QueueCount:       q.Count(),
			PQueuePriorities: q.Priorities,
		})
	}

	var enabledFeatures []vk.PhysicalDeviceFeatures
	switch features := info.Features.(type) {
	case nil:
	case vk.PhysicalDeviceFeatures:
		enabledFeatures = []vk.PhysicalDeviceFeatures{features}
	default:
		return nil, errors.Errorf("device features %T are not Vulkan features", info.Features)
	}

	layers := safeStrings(info.Layers)
	extensions := safeStrings(info.Extensions)
	createInfo := vk.DeviceCreateInfo{
		SType:            vk.StructureTypeDeviceCreateInfo,
		PEnabledFeatures: enabledFeatures,

		PQueueCreateInfos:    queueCreateInfos,
		QueueCreateInfoCount: uint32(len(queueCreateInfos)),

		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,

		EnabledLayerCount:   uint32(len(layers)),
		PpEnabledLayerNames: layers,
	}

	var device vk.Device
	res := vk.CreateDevice(p.handle, &createInfo, nil, &device)
	if err := check("vkCreateDevice", res); err != nil {
		return nil, err
	}
	return &Device{handle: device}, nil
}

// Inner returns the vk.PhysicalDevice.
func (p *PhysicalDevice) Inner() interface{} {
	return p.handle
}

// Device wraps a vk.Device.
type Device struct {
	handle vk.Device
}

var _ driver.Device = (*Device)(nil)

// Queue implements driver.Device.
func (d *Device) Queue(family, index uint32) driver.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(d.handle, family, index, &queue)
	return &Queue{family: family, handle: queue}
}

// WaitIdle implements driver.Device.
func (d *Device) WaitIdle() error {
	if err := check("vkDeviceWaitIdle", vk.DeviceWaitIdle(d.handle)); err != nil {
		return err
	}
	return nil
}

// Destroy implements driver.Device.
func (d *Device) Destroy() {
	vk.DestroyDevice(d.handle, nil)
}

// Inner returns the vk.Device.
func (d *Device) Inner() interface{} {
	return d.handle
}

// Queue wraps a vk.Queue.
type Queue struct {
	family uint32
	handle vk.Queue
}

// Family implements driver.Queue.
func (q *Queue) Family() uint32 {
	return q.family
}

// Inner returns the vk.Queue.
func (q *Queue) Inner() interface{} {
	return q.handle
}
