package driver

import "fmt"

// Version is a major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Packed returns the version in the API's packed 32 bit form.
func (v Version) Packed() uint32 {
	return uint32(v.Major)<<22 | uint32(v.Minor)<<12 | uint32(v.Patch)
}

// UnpackVersion is the inverse of Version.Packed.
func UnpackVersion(packed uint32) Version {
	return Version{
		Major: int(packed >> 22),
		Minor: int((packed >> 12) & 0x3ff),
		Patch: int(packed & 0xfff),
	}
}

// DeviceType is the class of a physical device.
type DeviceType int

// Values match the API's physical device type enumeration.
const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeOther:
		return "other"
	case DeviceTypeIntegratedGPU:
		return "integrated"
	case DeviceTypeDiscreteGPU:
		return "discrete"
	case DeviceTypeVirtualGPU:
		return "virtual"
	case DeviceTypeCPU:
		return "cpu"
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

// Properties describes a physical device.
type Properties struct {
	Name          string
	Type          DeviceType
	VendorID      uint32
	DeviceID      uint32
	APIVersion    Version
	DriverVersion uint32

	// Memory is the total size of all memory heaps, in bytes.
	Memory uint64
}

// QueueFlags are the capabilities of a queue family.
type QueueFlags uint32

// Values match the API's queue flag bits.
const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// Has reports whether all of flags are set.
func (f QueueFlags) Has(flags QueueFlags) bool {
	return f&flags == flags
}

// QueueFamily describes one queue family of a physical device.
type QueueFamily struct {
	Index uint32
	Flags QueueFlags
	Count uint32
}

// InstanceInfo holds the parameters of Driver.CreateInstance.
type InstanceInfo struct {
	ApplicationName    string
	ApplicationVersion Version
	EngineName         string
	EngineVersion      Version
	APIVersion         Version

	Layers     []string
	Extensions []string
}

// QueueCreateInfo requests len(Priorities) queues from one family.
type QueueCreateInfo struct {
	Family     uint32
	Priorities []float32
}

// Count returns the number of queues requested.
func (q QueueCreateInfo) Count() uint32 {
	return uint32(len(q.Priorities))
}

// DeviceInfo holds the parameters of PhysicalDevice.CreateDevice.
type DeviceInfo struct {
	Queues     []QueueCreateInfo
	Layers     []string
	Extensions []string
	Features   Features
}
