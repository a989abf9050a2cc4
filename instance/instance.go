// Package instance resolves the instance extensions required by the
// windowing platform and creates the API instance.
package instance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vkx/driver"
	"vkx/platform"
)

// Engine identity reported to the driver.
const EngineName = "vkx"

var (
	EngineVersion = driver.Version{Major: 1, Minor: 0, Patch: 0}
	APIVersion    = driver.Version{Major: 1, Minor: 0, Patch: 0}
)

// ValidationLayers is the layer list requested in debug configuration.
var ValidationLayers = []string{"VK_LAYER_KHRONOS_validation"}

// Identity names the application to the driver.
type Identity struct {
	Name    string
	Version driver.Version
}

func (id Identity) String() string {
	return fmt.Sprintf("%s %s", id.Name, id.Version)
}

// InstanceCreationError is returned when the instance cannot be created.
type InstanceCreationError struct {
	Result driver.Result
	// Missing names requested layers that are not available, if known.
	Missing []string
	Err     error
}

func (e *InstanceCreationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("create instance (%s): missing %s", e.Result, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("create instance (%s): %v", e.Result, e.Err)
}

func (e *InstanceCreationError) Unwrap() error {
	return e.Err
}

// ExtensionSource reports instance extensions needed for presentation.
// platform.Platform implements it.
type ExtensionSource interface {
	RequiredExtensions() ([]string, error)
}

// RequiredExtensions queries src and returns its extensions deduplicated and
// sorted, so the result does not depend on the order src reports them in.
// Failures are reported as *platform.PlatformError.
func RequiredExtensions(src ExtensionSource) ([]string, error) {
	reported, err := src.RequiredExtensions()
	if err != nil {
		var perr *platform.PlatformError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, &platform.PlatformError{
			Op:     "required extensions",
			Result: driver.ResultOf(err),
			Err:    err,
		}
	}

	set := make(map[string]struct{}, len(reported))
	for _, extension := range reported {
		set[extension] = struct{}{}
	}

	extensions := make([]string, 0, len(set))
	for extension := range set {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions, nil
}

// Factory creates instances through a driver.
type Factory struct {
	Driver driver.Driver
	Logger logrus.FieldLogger
}

// NewFactory returns a Factory logging to the standard logrus logger.
func NewFactory(drv driver.Driver) *Factory {
	return &Factory{Driver: drv, Logger: logrus.StandardLogger()}
}

// Create creates an instance for id with the given layers and extensions.
// Neither slice is retained or modified. When layers are requested their
// availability is checked first, so a missing layer is reported by name.
func (f *Factory) Create(id Identity, layers, extensions []string) (driver.Instance, error) {
	log := f.logger().WithField("application", id.String())

	if len(layers) > 0 {
		missing, err := f.missingLayers(layers)
		if err != nil {
			log.WithError(err).Warn("Cannot list instance layers, letting the driver check them")
		} else if len(missing) > 0 {
			return nil, &InstanceCreationError{
				Result:  driver.ErrorLayerNotPresent,
				Missing: missing,
				Err:     errors.New("validation layers requested but not available"),
			}
		}
	}

	info := driver.InstanceInfo{
		ApplicationName:    id.Name,
		ApplicationVersion: id.Version,
		EngineName:         EngineName,
		EngineVersion:      EngineVersion,
		APIVersion:         APIVersion,
		Layers:             append([]string(nil), layers...),
		Extensions:         append([]string(nil), extensions...),
	}

	inst, err := f.Driver.CreateInstance(info)
	if err != nil {
		return nil, &InstanceCreationError{
			Result: driver.ResultOf(err),
			Err:    errors.Wrap(err, "failed to create Vulkan instance"),
		}
	}

	log.WithFields(logrus.Fields{
		"layers":     layers,
		"extensions": extensions,
	}).Debug("Instance created")
	return inst, nil
}

func (f *Factory) missingLayers(layers []string) ([]string, error) {
	available, err := f.Driver.InstanceLayers()
	if err != nil {
		return nil, err
	}

	supported := make(map[string]struct{}, len(available))
	for _, layer := range available {
		supported[layer] = struct{}{}
	}

	var missing []string
	for _, layer := range layers {
		if _, ok := supported[layer]; !ok {
			missing = append(missing, layer)
		}
	}
	return missing, nil
}

func (f *Factory) logger() logrus.FieldLogger {
	if f.Logger == nil {
		return logrus.StandardLogger()
	}
	return f.Logger
}
