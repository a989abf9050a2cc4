package queues

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vkx/driver"
	"vkx/optional"
)

// Role is a job a queue is needed for.
type Role string

// Queue roles.
const (
	RoleGraphics Role = "graphics"
	RolePresent  Role = "presentation"
)

// NoSuitableQueueFamilyError is returned when a required role has no queue
// family supporting it, or when the families could not be queried.
type NoSuitableQueueFamilyError struct {
	Device  string
	Missing []Role
	// Result is the code of the failed query, Success when every family
	// was inspected.
	Result driver.Result
	Err    error
}

func (e *NoSuitableQueueFamilyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("queue families of %q (%s): %v", e.Device, e.Result, e.Err)
	}
	roles := make([]string, 0, len(e.Missing))
	for _, r := range e.Missing {
		roles = append(roles, string(r))
	}
	return fmt.Sprintf("no queue family on %q supports %s", e.Device, strings.Join(roles, ", "))
}

func (e *NoSuitableQueueFamilyError) Unwrap() error {
	return e.Err
}

// Resolver finds the queue families to use on a physical device.
type Resolver struct {
	Logger logrus.FieldLogger
}

// NewResolver returns a Resolver logging to the standard logrus logger.
func NewResolver() *Resolver {
	return &Resolver{Logger: logrus.StandardLogger()}
}

// Resolve picks a graphics family and, when surface is not nil, a family
// able to present to it. A single family doing both is preferred; otherwise
// the first family found for each role is used. families is the family list
// captured for device.
func (r *Resolver) Resolve(device driver.PhysicalDevice, families []driver.QueueFamily, surface driver.Surface) (FamilyIndices, error) {
	name := device.Properties().Name
	log := r.logger().WithField("device", name)
	indices := FamilyIndices{}

	var firstGraphics, firstPresent optional.Optional[uint32]
	for _, family := range families {
		graphics := family.Count > 0 && family.Flags.Has(driver.QueueGraphics)

		if surface == nil {
			if graphics {
				indices.Graphics.Set(family.Index)
				break
			}
			continue
		}

		hasPresent, err := device.SurfaceSupport(family.Index, surface)
		if err != nil {
			return FamilyIndices{}, &NoSuitableQueueFamilyError{
				Device: name,
				Result: driver.ResultOf(err),
				Err:    errors.Wrapf(err, "surface support of queue family %d", family.Index),
			}
		}

		if graphics && hasPresent {
			indices = FamilyIndices{
				Graphics: optional.Of(family.Index),
				Present:  optional.Of(family.Index),
			}
			break
		}
		if graphics && !firstGraphics.HasValue() {
			firstGraphics.Set(family.Index)
		}
		if hasPresent && !firstPresent.HasValue() {
			firstPresent.Set(family.Index)
		}
	}

	if surface != nil && !indices.IsComplete() {
		indices.Graphics = firstGraphics
		indices.Present = firstPresent
	}

	var missing []Role
	if !indices.Graphics.HasValue() {
		missing = append(missing, RoleGraphics)
	}
	if surface != nil && !indices.Present.HasValue() {
		missing = append(missing, RolePresent)
	}
	if len(missing) > 0 {
		return FamilyIndices{}, &NoSuitableQueueFamilyError{Device: name, Missing: missing}
	}

	fields := logrus.Fields{"graphics": indices.Graphics.Get()}
	if indices.Present.HasValue() {
		fields["present"] = indices.Present.Get()
	}
	log.WithFields(fields).Debug("Resolved queue families")
	return indices, nil
}

func (r *Resolver) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}

// CreateInfos returns one queue request per distinct family in indices, each
// asking for a single queue at full priority.
func CreateInfos(indices FamilyIndices) []driver.QueueCreateInfo {
	families := indices.Unique()
	infos := make([]driver.QueueCreateInfo, 0, len(families))
	for _, family := range families {
		infos = append(infos, driver.QueueCreateInfo{
			Family:     family,
			Priorities: []float32{1.0},
		})
	}
	return infos
}
