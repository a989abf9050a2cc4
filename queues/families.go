package queues

import (
	"vkx/optional"
)

// FamilyIndices holds the indexes of Vulkan queue families needed by the programs.
type FamilyIndices struct {

	// Graphics is the index of the graphics queue family.
	Graphics optional.Optional[uint32]

	// Present is the index of the queue family used for presenting to the drawing
	// surface. It stays unset when no surface is in play.
	Present optional.Optional[uint32]
}

// IsComplete returns true if all families have been set.
func (f FamilyIndices) IsComplete() bool {
	return f.Graphics.HasValue() && f.Present.HasValue()
}

// Shared reports whether graphics and presentation use the same family.
func (f FamilyIndices) Shared() bool {
	return f.IsComplete() && f.Graphics.Get() == f.Present.Get()
}

// Unique returns the distinct families in use, graphics first.
func (f FamilyIndices) Unique() []uint32 {
	var families []uint32
	if f.Graphics.HasValue() {
		families = append(families, f.Graphics.Get())
	}
	if f.Present.HasValue() && !f.Shared() {
		families = append(families, f.Present.Get())
	}
	return families
}
