package device_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"vkx/device"
	"vkx/driver"
	"vkx/driver/drivertest"
)

func selected(t *testing.T, pd *drivertest.PhysicalDevice) (*drivertest.Driver, driver.Instance, *device.Info) {
	t.Helper()
	g := NewWithT(t)

	drv := drivertest.New(pd)
	g.Expect(drv.Load(nil)).To(Succeed())
	inst, err := drv.CreateInstance(driver.InstanceInfo{})
	g.Expect(err).NotTo(HaveOccurred())

	selector, _ := newSelector()
	info, err := selector.Select(inst)
	g.Expect(err).NotTo(HaveOccurred())
	return drv, inst, info
}

func newFactory() *device.Factory {
	logger, _ := logtest.NewNullLogger()
	return &device.Factory{Logger: logger}
}

var oneQueue = []driver.QueueCreateInfo{{Family: 0, Priorities: []float32{1.0}}}

func TestCreateDevice(t *testing.T) {
	g := NewWithT(t)

	pd := drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU)
	drv, inst, info := selected(t, pd)

	extensions := []string{device.SwapchainExtension}
	dev, err := newFactory().Create(info, oneQueue, extensions, nil)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(pd.DeviceInfo).NotTo(BeNil())
	g.Expect(pd.DeviceInfo.Features).To(Equal(info.Features), "features come verbatim from the snapshot")
	g.Expect(pd.DeviceInfo.Queues).To(Equal(oneQueue))
	g.Expect(pd.DeviceInfo.Extensions).To(Equal([]string{device.SwapchainExtension}))
	g.Expect(pd.DeviceInfo.Layers).To(BeEmpty())

	dev.Destroy()
	inst.Destroy()
	g.Expect(drv.Live()).To(BeZero())
	g.Expect(drv.Misuse()).To(BeEmpty())
}

func TestCreateDeviceWithLayers(t *testing.T) {
	g := NewWithT(t)

	pd := drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU)
	_, inst, info := selected(t, pd)
	defer inst.Destroy()

	dev, err := newFactory().Create(info, oneQueue, nil, []string{"VK_LAYER_KHRONOS_validation"})
	g.Expect(err).NotTo(HaveOccurred())
	defer dev.Destroy()

	g.Expect(pd.DeviceInfo.Layers).To(Equal([]string{"VK_LAYER_KHRONOS_validation"}))
}

func TestCreateDeviceMissingExtension(t *testing.T) {
	g := NewWithT(t)

	pd := drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU)
	pd.DeviceExtensions = nil
	drv, inst, info := selected(t, pd)
	defer inst.Destroy()

	_, err := newFactory().Create(info, oneQueue, []string{device.SwapchainExtension}, nil)

	var derr *device.DeviceCreationError
	g.Expect(errors.As(err, &derr)).To(BeTrue())
	g.Expect(derr.Result).To(Equal(driver.ErrorExtensionNotPresent))
	g.Expect(derr.Missing).To(Equal([]string{device.SwapchainExtension}))
	g.Expect(derr.Device).To(Equal("gpu"))
	g.Expect(pd.DeviceInfo).To(BeNil(), "the driver must not be called")
	g.Expect(drv.Live()).To(Equal(1), "only the instance is alive")
}

func TestCreateDeviceNoQueues(t *testing.T) {
	g := NewWithT(t)

	pd := drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU)
	_, inst, info := selected(t, pd)
	defer inst.Destroy()

	_, err := newFactory().Create(info, nil, nil, nil)

	var derr *device.DeviceCreationError
	g.Expect(errors.As(err, &derr)).To(BeTrue())
	g.Expect(pd.DeviceInfo).To(BeNil())
}

func TestCreateDeviceDriverFailure(t *testing.T) {
	for _, result := range []driver.Result{
		driver.ErrorFeatureNotPresent,
		driver.ErrorExtensionNotPresent,
		driver.ErrorOutOfDeviceMemory,
		driver.ErrorDeviceLost,
	} {
		t.Run(result.String(), func(t *testing.T) {
			g := NewWithT(t)

			pd := drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU)
			pd.CreateDeviceErr = driver.NewError("vkCreateDevice", result)
			drv, inst, info := selected(t, pd)
			defer inst.Destroy()

			dev, err := newFactory().Create(info, oneQueue, nil, nil)
			g.Expect(dev).To(BeNil())

			var derr *device.DeviceCreationError
			g.Expect(errors.As(err, &derr)).To(BeTrue())
			g.Expect(derr.Result).To(Equal(result))
			g.Expect(err.Error()).To(ContainSubstring(result.String()))
			g.Expect(drv.Outstanding()).To(Equal([]string{"instance=1"}))
		})
	}
}
