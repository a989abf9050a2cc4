package queues

import (
	"vkx/driver"
)

// Manager holds the queues retrieved from a logical device.
type Manager struct {
	indices  FamilyIndices
	graphics driver.Queue
	present  driver.Queue
}

// NewManager retrieves the first queue of every family in indices from
// device, which must have been created with CreateInfos(indices).
func NewManager(device driver.Device, indices FamilyIndices) *Manager {
	m := &Manager{indices: indices}
	if indices.Graphics.HasValue() {
		m.graphics = device.Queue(indices.Graphics.Get(), 0)
	}
	if indices.Present.HasValue() {
		if indices.Shared() {
			m.present = m.graphics
		} else {
			m.present = device.Queue(indices.Present.Get(), 0)
		}
	}
	return m
}

// Indices returns the family assignment.
func (m *Manager) Indices() FamilyIndices {
	return m.indices
}

// Graphics returns the graphics queue.
func (m *Manager) Graphics() driver.Queue {
	return m.graphics
}

// Present returns the presentation queue, nil when there is no surface.
func (m *Manager) Present() driver.Queue {
	return m.present
}
