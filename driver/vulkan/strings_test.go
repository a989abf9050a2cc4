package vulkan

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestSafeStrings(t *testing.T) {
	g := NewWithT(t)

	in := []string{"VK_KHR_surface", "VK_KHR_xcb_surface\x00"}
	out := safeStrings(in)

	g.Expect(out).To(Equal([]string{"VK_KHR_surface\x00", "VK_KHR_xcb_surface\x00"}))
	g.Expect(in).To(Equal([]string{"VK_KHR_surface", "VK_KHR_xcb_surface\x00"}), "input must not be modified")
	g.Expect(safeStrings(nil)).To(BeNil())
}

func TestSafeString(t *testing.T) {
	g := NewWithT(t)

	g.Expect(safeString("demo")).To(Equal("demo\x00"))
	g.Expect(safeString("demo\x00")).To(Equal("demo\x00"))
	g.Expect(safeString("")).To(Equal("\x00"))
}
