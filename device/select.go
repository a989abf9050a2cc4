package device

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vkx/driver"
)

// Ranking maps a device class to its score. Classes missing from the table
// score 0.
type Ranking map[driver.DeviceType]int

// DefaultRanking prefers discrete over integrated over virtual GPUs, then
// CPU implementations. Only the order of the values is meaningful.
var DefaultRanking = Ranking{
	driver.DeviceTypeDiscreteGPU:   1000,
	driver.DeviceTypeIntegratedGPU: 100,
	driver.DeviceTypeVirtualGPU:    50,
	driver.DeviceTypeCPU:           10,
	driver.DeviceTypeOther:         0,
}

// Score implements ScoreFunc.
func (r Ranking) Score(properties driver.Properties) int {
	return r[properties.Type]
}

// ScoreFunc rates a physical device. Higher is better.
type ScoreFunc func(driver.Properties) int

// Selector picks one physical device out of those an instance exposes.
type Selector struct {
	// Score rates each candidate. DefaultRanking.Score is used when nil.
	Score  ScoreFunc
	Logger logrus.FieldLogger
}

// NewSelector returns a Selector using DefaultRanking.
func NewSelector() *Selector {
	return &Selector{
		Score:  DefaultRanking.Score,
		Logger: logrus.StandardLogger(),
	}
}

// Select enumerates the physical devices of inst and returns a snapshot of
// the best one.
func (s *Selector) Select(inst driver.Instance) (*Info, error) {
	devices, err := inst.PhysicalDevices()
	if err != nil {
		return nil, &NoSuitableDeviceError{
			Result: driver.ResultOf(err),
			Err:    errors.Wrap(err, "failed to enumerate the physical devices"),
		}
	}
	return s.SelectFrom(devices)
}

// SelectFrom returns a snapshot of the highest scoring device. Ties go to the
// device enumerated first.
func (s *Selector) SelectFrom(devices []driver.PhysicalDevice) (*Info, error) {
	if len(devices) == 0 {
		return nil, &NoSuitableDeviceError{
			Result: driver.ErrorInitializationFailed,
			Err:    errors.New("failed to find GPUs with Vulkan support"),
		}
	}

	score := s.Score
	if score == nil {
		score = DefaultRanking.Score
	}

	var (
		selected   driver.PhysicalDevice
		properties driver.Properties
		best       int
	)
	for i, device := range devices {
		deviceProperties := device.Properties()
		deviceScore := score(deviceProperties)

		s.logger().WithFields(logrus.Fields{
			"device": deviceProperties.Name,
			"type":   deviceProperties.Type.String(),
			"score":  deviceScore,
		}).Debug("Available device")

		if i == 0 || deviceScore > best {
			selected = device
			properties = deviceProperties
			best = deviceScore
		}
	}

	extensions, err := selected.Extensions()
	if err != nil {
		return nil, &NoSuitableDeviceError{
			Result: driver.ResultOf(err),
			Err:    errors.Wrapf(err, "listing extensions of %q", properties.Name),
		}
	}

	info := &Info{
		Device:        selected,
		Properties:    properties,
		Features:      selected.Features(),
		QueueFamilies: selected.QueueFamilies(),
		Extensions:    extensions,
		Score:         best,
	}

	s.logger().WithFields(logrus.Fields{
		"device": properties.Name,
		"type":   properties.Type.String(),
		"api":    properties.APIVersion.String(),
		"score":  best,
	}).Info("Selected physical device")
	return info, nil
}

func (s *Selector) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
