package device

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vkx/driver"
)

// Factory creates logical devices.
type Factory struct {
	Logger logrus.FieldLogger
}

// NewFactory returns a Factory logging to the standard logrus logger.
func NewFactory() *Factory {
	return &Factory{Logger: logrus.StandardLogger()}
}

// Create creates a logical device on the device described by info. The
// feature set requested is exactly info.Features. Every extension must be
// advertised in info, otherwise the driver is not called at all.
func (f *Factory) Create(info *Info, queues []driver.QueueCreateInfo, extensions, layers []string) (driver.Device, error) {
	if len(queues) == 0 {
		return nil, &DeviceCreationError{
			Device: info.Name(),
			Result: driver.ErrorInitializationFailed,
			Err:    errors.New("no queues requested"),
		}
	}

	var missing []string
	for _, extension := range extensions {
		if !info.SupportsExtension(extension) {
			missing = append(missing, extension)
		}
	}
	if len(missing) > 0 {
		return nil, &DeviceCreationError{
			Device:  info.Name(),
			Result:  driver.ErrorExtensionNotPresent,
			Missing: missing,
			Err:     errors.New("required device extensions are not supported"),
		}
	}

	createInfo := driver.DeviceInfo{
		Queues:     append([]driver.QueueCreateInfo(nil), queues...),
		Layers:     append([]string(nil), layers...),
		Extensions: append([]string(nil), extensions...),
		Features:   info.Features,
	}

	device, err := info.Device.CreateDevice(createInfo)
	if err != nil {
		return nil, &DeviceCreationError{
			Device: info.Name(),
			Result: driver.ResultOf(err),
			Err:    errors.Wrap(err, "failed to create logical device"),
		}
	}

	f.logger().WithFields(logrus.Fields{
		"device":     info.Name(),
		"queues":     len(queues),
		"extensions": extensions,
	}).Debug("Logical device created")
	return device, nil
}

func (f *Factory) logger() logrus.FieldLogger {
	if f.Logger == nil {
		return logrus.StandardLogger()
	}
	return f.Logger
}
