package main

import (
	"flag"
	"runtime"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xlab/closer"

	"vkx/app"
	"vkx/config"
	"vkx/driver/vulkan"
	"vkx/platform"
	"vkx/platform/glfwplatform"
	"vkx/platform/sdlplatform"
)

func init() {
	// This is needed to arrange that main() runs on main thread.
	// See documentation for functions that are only allowed to be called
	// from the main thread.
	runtime.LockOSThread()

	flag.BoolVar(&args.debug, "debug", false, "Enable Vulkan validation layers")
}

// frameInterval paces the event loop; nothing is rendered.
const frameInterval = 16 * time.Millisecond

var args struct {
	debug bool
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("ERROR: %s", err)
	}
	if args.debug {
		cfg.Debug = true
	}

	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	var p platform.Platform
	switch cfg.Platform {
	case config.PlatformSDL:
		p = sdlplatform.New()
	default:
		p = glfwplatform.New()
	}

	a, err := app.New(app.Options{
		Identity: cfg.Identity(),
		Layers:   cfg.Layers(),
		Window:   cfg.Window(),
		Platform: p,
		Driver:   vulkan.New(),
	})
	if err != nil {
		log.Fatalf("ERROR: %s", err)
	}
	// A signal only stops the loop; teardown stays on the main thread.
	var stop atomic.Bool
	done := make(chan struct{})
	closer.Bind(func() {
		stop.Store(true)
		<-done
	})
	defer closer.Close()

	info := a.DeviceInfo()
	log.WithFields(log.Fields{
		"device": info.Name(),
		"type":   info.Properties.Type.String(),
		"api":    info.Properties.APIVersion.String(),
		"memory": info.Properties.Memory,
	}).Info("Execution context ready")

	mainLoop(a.Window(), &stop)

	if err := a.Destroy(); err != nil {
		log.WithError(err).Error("Teardown failed")
	}
	close(done)
}

func mainLoop(window platform.Window, stop *atomic.Bool) {
	log.Debug("main loop!")

	for !stop.Load() && !window.ShouldClose() {
		window.PollEvents()
		time.Sleep(frameInterval)
	}
}
