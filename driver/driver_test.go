package driver_test

import (
	"fmt"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"vkx/driver"
)

func TestResultString(t *testing.T) {
	g := NewWithT(t)

	g.Expect(driver.ErrorExtensionNotPresent.String()).To(Equal("VK_ERROR_EXTENSION_NOT_PRESENT"))
	g.Expect(driver.ErrorDeviceLost.String()).To(Equal("VK_ERROR_DEVICE_LOST"))
	g.Expect(driver.Result(-424242).String()).To(Equal("VkResult(-424242)"))

	g.Expect(driver.Success.IsError()).To(BeFalse())
	g.Expect(driver.Incomplete.IsError()).To(BeFalse())
	g.Expect(driver.ErrorOutOfHostMemory.IsError()).To(BeTrue())
}

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want driver.Result
	}{
		{"nil", nil, driver.Success},
		{"plain", fmt.Errorf("boom"), driver.ErrorUnknown},
		{"direct", driver.NewError("vkCreateInstance", driver.ErrorLayerNotPresent), driver.ErrorLayerNotPresent},
		{
			"wrapped",
			errors.Wrap(driver.NewError("vkCreateDevice", driver.ErrorFeatureNotPresent), "create device"),
			driver.ErrorFeatureNotPresent,
		},
		{
			"fmt wrapped",
			fmt.Errorf("outer: %w", driver.NewError("vkDeviceWaitIdle", driver.ErrorDeviceLost)),
			driver.ErrorDeviceLost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NewWithT(t).Expect(driver.ResultOf(tt.err)).To(Equal(tt.want))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	g := NewWithT(t)

	err := driver.NewError("vkCreateInstance", driver.ErrorIncompatibleDriver)
	g.Expect(err.Error()).To(Equal("vkCreateInstance: VK_ERROR_INCOMPATIBLE_DRIVER"))
}

func TestVersion(t *testing.T) {
	g := NewWithT(t)

	v := driver.Version{Major: 1, Minor: 2, Patch: 189}
	g.Expect(v.String()).To(Equal("1.2.189"))
	g.Expect(v.Packed()).To(Equal(uint32(1<<22 | 2<<12 | 189)))
	g.Expect(driver.UnpackVersion(v.Packed())).To(Equal(v))
}

func TestQueueFlags(t *testing.T) {
	g := NewWithT(t)

	flags := driver.QueueGraphics | driver.QueueTransfer
	g.Expect(flags.Has(driver.QueueGraphics)).To(BeTrue())
	g.Expect(flags.Has(driver.QueueGraphics | driver.QueueTransfer)).To(BeTrue())
	g.Expect(flags.Has(driver.QueueCompute)).To(BeFalse())
}

func TestDeviceTypeString(t *testing.T) {
	g := NewWithT(t)

	g.Expect(driver.DeviceTypeDiscreteGPU.String()).To(Equal("discrete"))
	g.Expect(driver.DeviceTypeCPU.String()).To(Equal("cpu"))
	g.Expect(driver.DeviceType(9).String()).To(Equal("DeviceType(9)"))
}
