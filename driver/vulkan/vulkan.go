// Package vulkan implements driver.Driver on top of github.com/vulkan-go/vulkan.
package vulkan

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vkx/driver"
)

// Driver is the Vulkan implementation of driver.Driver.
type Driver struct {
	loaded bool
}

var _ driver.Driver = (*Driver)(nil)

// New returns a Driver. Load must be called before anything else.
func New() *Driver {
	return &Driver{}
}

// Load implements driver.Driver.
func (d *Driver) Load(procAddr unsafe.Pointer) error {
	if d.loaded {
		return nil
	}

	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "failed to init Vulkan Go")
	}

	d.loaded = true
	return nil
}

// InstanceLayers implements driver.Driver.
func (d *Driver) InstanceLayers() ([]string, error) {
	var count uint32
	res := vk.EnumerateInstanceLayerProperties(&count, nil)
	if err := check("vkEnumerateInstanceLayerProperties", res); err != nil {
		return nil, err
	}

	available := make([]vk.LayerProperties, count)
	res = vk.EnumerateInstanceLayerProperties(&count, available)
	if err := check("vkEnumerateInstanceLayerProperties", res); err != nil {
		return nil, err
	}

	layers := make([]string, 0, count)
	for _, layer := range available {
		layer.Deref()
		layers = append(layers, vk.ToString(layer.LayerName[:]))
	}
	return layers, nil
}

// CreateInstance implements driver.Driver.
func (d *Driver) CreateInstance(info driver.InstanceInfo) (driver.Instance, error) {
	if !d.loaded {
		return nil, errors.New("vulkan driver used before Load")
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(info.ApplicationName),
		ApplicationVersion: info.ApplicationVersion.Packed(),
		PEngineName:        safeString(info.EngineName),
		EngineVersion:      info.EngineVersion.Packed(),
		ApiVersion:         info.APIVersion.Packed(),
	}

	layers := safeStrings(info.Layers)
	extensions := safeStrings(info.Extensions)
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	var instance vk.Instance
	res := vk.CreateInstance(&createInfo, nil, &instance)
	if err := check("vkCreateInstance", res); err != nil {
		return nil, err
	}

	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "vk.InitInstance")
	}

	return &Instance{handle: instance}, nil
}
