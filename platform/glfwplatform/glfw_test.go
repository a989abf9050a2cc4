package glfwplatform_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"vkx/driver"
	"vkx/platform"
	"vkx/platform/glfwplatform"
)

func TestRequiredExtensionsBeforeInit(t *testing.T) {
	g := NewWithT(t)

	_, err := glfwplatform.New().RequiredExtensions()

	var perr *platform.PlatformError
	g.Expect(errors.As(err, &perr)).To(BeTrue())
	g.Expect(perr.Result).To(Equal(driver.ErrorInitializationFailed))
}

func TestRequiredExtensions(t *testing.T) {
	g := NewWithT(t)

	p := glfwplatform.New()
	if err := p.Init(); err != nil {
		t.Skipf("no display or Vulkan loader: %v", err)
	}
	defer p.Terminate()

	extensions, err := p.RequiredExtensions()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(extensions).To(ContainElement("VK_KHR_surface"))
}
