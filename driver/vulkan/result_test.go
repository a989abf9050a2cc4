package vulkan

import (
	"testing"

	. "github.com/onsi/gomega"
	vk "github.com/vulkan-go/vulkan"

	"vkx/driver"
)

func TestCheck(t *testing.T) {
	g := NewWithT(t)

	g.Expect(check("vkCreateInstance", vk.Success)).To(Succeed())
	g.Expect(check("vkEnumeratePhysicalDevices", vk.Incomplete)).To(Succeed())

	err := check("vkDeviceWaitIdle", vk.ErrorDeviceLost)
	g.Expect(err).To(MatchError("vkDeviceWaitIdle: VK_ERROR_DEVICE_LOST"))
	g.Expect(driver.ResultOf(err)).To(Equal(driver.ErrorDeviceLost))
}

func TestPackedVersionMatchesBinding(t *testing.T) {
	g := NewWithT(t)

	v := driver.Version{Major: 1, Minor: 3, Patch: 250}
	g.Expect(v.Packed()).To(Equal(vk.MakeVersion(1, 3, 250)))
}
