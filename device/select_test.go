package device_test

import (
	"fmt"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"vkx/device"
	"vkx/driver"
	"vkx/driver/drivertest"
)

func newSelector() (*device.Selector, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return &device.Selector{Score: device.DefaultRanking.Score, Logger: logger}, hook
}

func physicalDevices(devices ...*drivertest.PhysicalDevice) []driver.PhysicalDevice {
	out := make([]driver.PhysicalDevice, 0, len(devices))
	for _, d := range devices {
		out = append(out, d)
	}
	return out
}

func TestDefaultRanking(t *testing.T) {
	g := NewWithT(t)

	score := func(t driver.DeviceType) int {
		return device.DefaultRanking.Score(driver.Properties{Type: t})
	}

	g.Expect(score(driver.DeviceTypeDiscreteGPU)).To(Equal(1000))
	g.Expect(score(driver.DeviceTypeIntegratedGPU)).To(Equal(100))
	g.Expect(score(driver.DeviceTypeVirtualGPU)).To(Equal(50))
	g.Expect(score(driver.DeviceTypeCPU)).To(Equal(10))
	g.Expect(score(driver.DeviceTypeOther)).To(Equal(0))
	g.Expect(score(driver.DeviceType(42))).To(Equal(0))
}

func TestSelectPrefersDiscreteAnywhere(t *testing.T) {
	others := []driver.DeviceType{
		driver.DeviceTypeIntegratedGPU,
		driver.DeviceTypeVirtualGPU,
		driver.DeviceTypeCPU,
		driver.DeviceTypeOther,
		driver.DeviceTypeIntegratedGPU,
	}

	for pos := 0; pos <= len(others); pos++ {
		t.Run(fmt.Sprintf("position %d", pos), func(t *testing.T) {
			g := NewWithT(t)

			var candidates []*drivertest.PhysicalDevice
			for i, typ := range others {
				if i == pos {
					candidates = append(candidates, drivertest.NewDevice("discrete", driver.DeviceTypeDiscreteGPU))
				}
				candidates = append(candidates, drivertest.NewDevice(fmt.Sprintf("other-%d", i), typ))
			}
			if pos == len(others) {
				candidates = append(candidates, drivertest.NewDevice("discrete", driver.DeviceTypeDiscreteGPU))
			}

			selector, _ := newSelector()
			info, err := selector.SelectFrom(physicalDevices(candidates...))
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(info.Properties.Type).To(Equal(driver.DeviceTypeDiscreteGPU))
			g.Expect(info.Name()).To(Equal("discrete"))
			g.Expect(info.Score).To(Equal(1000))
		})
	}
}

func TestSelectTieGoesToFirst(t *testing.T) {
	for _, typ := range []driver.DeviceType{
		driver.DeviceTypeDiscreteGPU,
		driver.DeviceTypeIntegratedGPU,
		driver.DeviceTypeOther,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			g := NewWithT(t)

			selector, _ := newSelector()
			info, err := selector.SelectFrom(physicalDevices(
				drivertest.NewDevice("first", typ),
				drivertest.NewDevice("second", typ),
				drivertest.NewDevice("third", typ),
			))
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(info.Name()).To(Equal("first"))
		})
	}
}

func TestSelectEmpty(t *testing.T) {
	g := NewWithT(t)

	selector, _ := newSelector()
	info, err := selector.SelectFrom(nil)
	g.Expect(info).To(BeNil())

	var nerr *device.NoSuitableDeviceError
	g.Expect(errors.As(err, &nerr)).To(BeTrue())
}

func TestSelectEnumerationFailure(t *testing.T) {
	g := NewWithT(t)

	drv := drivertest.New(drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU))
	drv.EnumerateErr = driver.NewError("vkEnumeratePhysicalDevices", driver.ErrorOutOfHostMemory)
	g.Expect(drv.Load(nil)).To(Succeed())
	inst, err := drv.CreateInstance(driver.InstanceInfo{})
	g.Expect(err).NotTo(HaveOccurred())
	defer inst.Destroy()

	selector, _ := newSelector()
	_, err = selector.Select(inst)

	var nerr *device.NoSuitableDeviceError
	g.Expect(errors.As(err, &nerr)).To(BeTrue())
	g.Expect(nerr.Result).To(Equal(driver.ErrorOutOfHostMemory))
}

func TestSelectCapturesSnapshot(t *testing.T) {
	g := NewWithT(t)

	discrete := drivertest.NewDevice("discrete", driver.DeviceTypeDiscreteGPU)
	discrete.DeviceExtensions = []string{"VK_KHR_swapchain", "VK_KHR_maintenance1"}
	drv := drivertest.New(drivertest.NewDevice("integrated", driver.DeviceTypeIntegratedGPU), discrete)
	g.Expect(drv.Load(nil)).To(Succeed())
	inst, err := drv.CreateInstance(driver.InstanceInfo{})
	g.Expect(err).NotTo(HaveOccurred())
	defer inst.Destroy()

	selector, hook := newSelector()
	info, err := selector.Select(inst)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(info.Device).To(BeIdenticalTo(discrete))
	g.Expect(info.Features).To(Equal(discrete.FeatureSet))
	g.Expect(info.QueueFamilies).To(Equal(discrete.Families))
	g.Expect(info.SupportsExtension("VK_KHR_maintenance1")).To(BeTrue())
	g.Expect(info.SupportsExtension("VK_KHR_ray_query")).To(BeFalse())
	g.Expect(info.String()).To(Equal("discrete (discrete, score 1000)"))

	g.Expect(drv.Calls()).To(ContainElement("GetPhysicalDeviceFeatures:discrete"))
	g.Expect(drv.Calls()).NotTo(ContainElement("GetPhysicalDeviceFeatures:integrated"),
		"only the selected device is snapshotted")

	g.Expect(hook.LastEntry().Message).To(Equal("Selected physical device"))
	g.Expect(hook.LastEntry().Data).To(HaveKeyWithValue("device", "discrete"))

	// The snapshot does not follow later changes on the device.
	discrete.DeviceExtensions = nil
	g.Expect(info.SupportsExtension("VK_KHR_swapchain")).To(BeTrue())
}

func TestSelectExtensionQueryFailure(t *testing.T) {
	g := NewWithT(t)

	gpu := drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU)
	gpu.ExtensionsErr = driver.NewError("vkEnumerateDeviceExtensionProperties", driver.ErrorOutOfHostMemory)

	selector, _ := newSelector()
	_, err := selector.SelectFrom(physicalDevices(gpu))

	var nerr *device.NoSuitableDeviceError
	g.Expect(errors.As(err, &nerr)).To(BeTrue())
	g.Expect(nerr.Result).To(Equal(driver.ErrorOutOfHostMemory))
}

func TestSelectCustomScore(t *testing.T) {
	g := NewWithT(t)

	preferCPU := device.Ranking{driver.DeviceTypeCPU: 5000}
	selector, _ := newSelector()
	selector.Score = preferCPU.Score

	info, err := selector.SelectFrom(physicalDevices(
		drivertest.NewDevice("discrete", driver.DeviceTypeDiscreteGPU),
		drivertest.NewDevice("llvmpipe", driver.DeviceTypeCPU),
	))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(info.Name()).To(Equal("llvmpipe"))
}

func TestSelectNegativeScores(t *testing.T) {
	g := NewWithT(t)

	selector, _ := newSelector()
	selector.Score = func(p driver.Properties) int { return -1 }

	info, err := selector.SelectFrom(physicalDevices(
		drivertest.NewDevice("a", driver.DeviceTypeDiscreteGPU),
		drivertest.NewDevice("b", driver.DeviceTypeDiscreteGPU),
	))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(info.Name()).To(Equal("a"))
}
