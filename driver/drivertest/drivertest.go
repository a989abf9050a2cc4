// Package drivertest provides an in-memory driver.Driver for tests. It
// records every call, counts live objects and flags lifetime misuse such as
// destroying an instance before the devices created from it.
package drivertest

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"

	"vkx/driver"
)

// SwapchainExtension is the device extension name reported by devices made
// with NewDevice.
const SwapchainExtension = "VK_KHR_swapchain"

// Recorder is an ordered call log that can be shared between fakes.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Record appends call to the log.
func (r *Recorder) Record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// Calls returns a copy of the log.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how many times call was recorded.
func (r *Recorder) Count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// Driver is a scripted driver.Driver.
type Driver struct {
	// Devices are enumerated by every instance, in order.
	Devices []*PhysicalDevice
	// Layers are reported by InstanceLayers.
	Layers []string

	LoadErr           error
	LayersErr         error
	CreateInstanceErr error
	EnumerateErr      error

	// Recorder receives every call. A private one is used when nil.
	Recorder *Recorder

	// InstanceInfo is a copy of the last CreateInstance argument.
	InstanceInfo driver.InstanceInfo
	// LoadedWith is the procAddr passed to the first successful Load.
	LoadedWith unsafe.Pointer

	mu     sync.Mutex
	loaded bool
	live   map[string]int
	misuse []string
}

var _ driver.Driver = (*Driver)(nil)

// New returns a Driver enumerating devices.
func New(devices ...*PhysicalDevice) *Driver {
	return &Driver{Devices: devices}
}

func (d *Driver) record(call string) {
	if d.Recorder == nil {
		d.Recorder = &Recorder{}
	}
	d.Recorder.Record(call)
}

func (d *Driver) acquire(kind string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.live == nil {
		d.live = make(map[string]int)
	}
	d.live[kind]++
}

func (d *Driver) release(kind string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.live[kind]--
}

func (d *Driver) misused(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.misuse = append(d.misuse, fmt.Sprintf(format, args...))
}

func (d *Driver) liveCount(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live[kind]
}

// Live returns the number of created and not yet destroyed objects.
func (d *Driver) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.live {
		n += c
	}
	return n
}

// Outstanding describes the live objects, e.g. "device=1".
func (d *Driver) Outstanding() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for kind, c := range d.live {
		if c != 0 {
			out = append(out, fmt.Sprintf("%s=%d", kind, c))
		}
	}
	sort.Strings(out)
	return out
}

// Misuse returns lifetime violations observed so far.
func (d *Driver) Misuse() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.misuse...)
}

// Calls returns the recorded calls.
func (d *Driver) Calls() []string {
	if d.Recorder == nil {
		return nil
	}
	return d.Recorder.Calls()
}

// Load implements driver.Driver.
func (d *Driver) Load(procAddr unsafe.Pointer) error {
	d.record("Load")
	if d.LoadErr != nil {
		return d.LoadErr
	}
	if !d.loaded {
		d.loaded = true
		d.LoadedWith = procAddr
	}
	return nil
}

// InstanceLayers implements driver.Driver.
func (d *Driver) InstanceLayers() ([]string, error) {
	d.record("InstanceLayers")
	if d.LayersErr != nil {
		return nil, d.LayersErr
	}
	return append([]string(nil), d.Layers...), nil
}

// CreateInstance implements driver.Driver.
func (d *Driver) CreateInstance(info driver.InstanceInfo) (driver.Instance, error) {
	d.record("CreateInstance")
	if !d.loaded {
		d.misused("CreateInstance before Load")
	}

	info.Layers = append([]string(nil), info.Layers...)
	info.Extensions = append([]string(nil), info.Extensions...)
	d.InstanceInfo = info

	if d.CreateInstanceErr != nil {
		return nil, d.CreateInstanceErr
	}
	d.acquire("instance")
	return &Instance{drv: d}, nil
}

// Instance is the fake driver.Instance.
type Instance struct {
	drv       *Driver
	destroyed bool
}

// PhysicalDevices implements driver.Instance.
func (i *Instance) PhysicalDevices() ([]driver.PhysicalDevice, error) {
	i.drv.record("EnumeratePhysicalDevices")
	if i.drv.EnumerateErr != nil {
		return nil, i.drv.EnumerateErr
	}
	devices := make([]driver.PhysicalDevice, 0, len(i.drv.Devices))
	for _, pd := range i.drv.Devices {
		pd.drv = i.drv
		devices = append(devices, pd)
	}
	return devices, nil
}

// SurfaceFromPointer implements driver.Instance.
func (i *Instance) SurfaceFromPointer(ptr uintptr) driver.Surface {
	i.drv.record("CreateSurface")
	i.drv.acquire("surface")
	return &Surface{drv: i.drv, Ptr: ptr}
}

// Destroy implements driver.Instance.
func (i *Instance) Destroy() {
	i.drv.record("DestroyInstance")
	if i.destroyed {
		i.drv.misused("instance destroyed twice")
		return
	}
	if n := i.drv.liveCount("device"); n > 0 {
		i.drv.misused("instance destroyed with %d live devices", n)
	}
	if n := i.drv.liveCount("surface"); n > 0 {
		i.drv.misused("instance destroyed with %d live surfaces", n)
	}
	i.destroyed = true
	i.drv.release("instance")
}

// Inner returns the Instance itself.
func (i *Instance) Inner() interface{} {
	return i
}

// Surface is the fake driver.Surface.
type Surface struct {
	drv       *Driver
	destroyed bool

	// Ptr is the pointer the surface was adopted from.
	Ptr uintptr
}

// Destroy implements driver.Surface.
func (s *Surface) Destroy() {
	s.drv.record("DestroySurface")
	if s.destroyed {
		s.drv.misused("surface destroyed twice")
		return
	}
	s.destroyed = true
	s.drv.release("surface")
}

// Inner returns the Surface itself.
func (s *Surface) Inner() interface{} {
	return s
}
