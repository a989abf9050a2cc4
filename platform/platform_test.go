package platform_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/xlab/linmath"

	"vkx/driver"
	"vkx/platform"
)

func TestRefCount(t *testing.T) {
	g := NewWithT(t)

	var (
		refs  platform.RefCount
		inits int
		terms int
	)
	initFn := func() error { inits++; return nil }
	termFn := func() { terms++ }

	refs.Release(termFn)
	g.Expect(terms).To(BeZero(), "release without acquire is a no-op")

	g.Expect(refs.Acquire(initFn)).To(Succeed())
	g.Expect(refs.Acquire(initFn)).To(Succeed())
	g.Expect(inits).To(Equal(1))
	g.Expect(refs.Active()).To(BeTrue())

	refs.Release(termFn)
	g.Expect(terms).To(BeZero())
	refs.Release(termFn)
	g.Expect(terms).To(Equal(1))
	g.Expect(refs.Active()).To(BeFalse())

	refs.Release(termFn)
	g.Expect(terms).To(Equal(1))
}

func TestRefCountFailedInit(t *testing.T) {
	g := NewWithT(t)

	var refs platform.RefCount
	boom := errors.New("boom")

	g.Expect(refs.Acquire(func() error { return boom })).To(MatchError(boom))
	g.Expect(refs.Active()).To(BeFalse())

	terms := 0
	refs.Release(func() { terms++ })
	g.Expect(terms).To(BeZero())
}

func TestWindowConfig(t *testing.T) {
	g := NewWithT(t)

	cfg := platform.WindowConfig{Title: "demo", Size: linmath.Vec2{800, 600}}
	g.Expect(cfg.Width()).To(Equal(800))
	g.Expect(cfg.Height()).To(Equal(600))

	g.Expect(platform.WindowConfig{}.Width()).To(Equal(1))
}

func TestPlatformError(t *testing.T) {
	g := NewWithT(t)

	cause := errors.New("no display")
	err := error(&platform.PlatformError{Op: "glfw.Init", Result: driver.ErrorInitializationFailed, Err: cause})

	g.Expect(err.Error()).To(Equal("platform: glfw.Init (VK_ERROR_INITIALIZATION_FAILED): no display"))
	g.Expect(errors.Is(err, cause)).To(BeTrue())

	var perr *platform.PlatformError
	g.Expect(errors.As(err, &perr)).To(BeTrue())
	g.Expect(perr.Result).To(Equal(driver.ErrorInitializationFailed))
}
