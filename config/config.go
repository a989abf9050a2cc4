// Package config loads the bootstrap configuration from the environment.
// An optional .env file in the working directory is read first; real
// environment variables take precedence.
package config

import (
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xlab/linmath"

	"vkx/driver"
	"vkx/instance"
	"vkx/platform"
)

// Environment variables read by Load.
const (
	EnvAppName          = "VKX_APP_NAME"
	EnvAppVersion       = "VKX_APP_VERSION"
	EnvDebug            = "VKX_DEBUG"
	EnvValidationLayers = "VKX_VALIDATION_LAYERS"
	EnvWindowWidth      = "VKX_WINDOW_WIDTH"
	EnvWindowHeight     = "VKX_WINDOW_HEIGHT"
	EnvPlatform         = "VKX_PLATFORM"
	EnvLogLevel         = "VKX_LOG_LEVEL"
)

// Supported windowing platforms.
const (
	PlatformGLFW = "glfw"
	PlatformSDL  = "sdl"
)

// Config is the bootstrap configuration.
type Config struct {
	AppName    string
	AppVersion driver.Version

	// Debug requests ValidationLayers at instance and device creation.
	Debug            bool
	ValidationLayers []string

	WindowWidth  int
	WindowHeight int

	Platform string
	LogLevel logrus.Level
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		AppName:          "demo",
		AppVersion:       driver.Version{Major: 0, Minor: 1, Patch: 0},
		ValidationLayers: append([]string(nil), instance.ValidationLayers...),
		WindowWidth:      1024,
		WindowHeight:     768,
		Platform:         PlatformGLFW,
		LogLevel:         logrus.InfoLevel,
	}
}

// Load reads the configuration from the environment, falling back to
// Default for unset variables.
func Load() (Config, error) {
	cfg := Default()

	cfg.AppName = envy.Get(EnvAppName, cfg.AppName)
	if cfg.AppName == "" {
		return Config{}, errors.Errorf("%s must not be empty", EnvAppName)
	}

	var err error
	if cfg.AppVersion, err = ParseVersion(envy.Get(EnvAppVersion, cfg.AppVersion.String())); err != nil {
		return Config{}, errors.Wrap(err, EnvAppVersion)
	}

	if cfg.Debug, err = strconv.ParseBool(envy.Get(EnvDebug, strconv.FormatBool(cfg.Debug))); err != nil {
		return Config{}, errors.Wrap(err, EnvDebug)
	}

	if layers := envy.Get(EnvValidationLayers, ""); layers != "" {
		cfg.ValidationLayers = splitList(layers)
	}

	if cfg.WindowWidth, err = positiveInt(EnvWindowWidth, cfg.WindowWidth); err != nil {
		return Config{}, err
	}
	if cfg.WindowHeight, err = positiveInt(EnvWindowHeight, cfg.WindowHeight); err != nil {
		return Config{}, err
	}

	cfg.Platform = strings.ToLower(envy.Get(EnvPlatform, cfg.Platform))
	switch cfg.Platform {
	case PlatformGLFW, PlatformSDL:
	default:
		return Config{}, errors.Errorf("%s: unknown platform %q", EnvPlatform, cfg.Platform)
	}

	if cfg.LogLevel, err = logrus.ParseLevel(envy.Get(EnvLogLevel, cfg.LogLevel.String())); err != nil {
		return Config{}, errors.Wrap(err, EnvLogLevel)
	}

	return cfg, nil
}

// Identity returns the application identity.
func (c Config) Identity() instance.Identity {
	return instance.Identity{Name: c.AppName, Version: c.AppVersion}
}

// Layers returns the layers to request: the validation layers in debug
// configuration, none otherwise.
func (c Config) Layers() []string {
	if !c.Debug {
		return nil
	}
	return append([]string(nil), c.ValidationLayers...)
}

// Window returns the window construction parameters.
func (c Config) Window() platform.WindowConfig {
	return platform.WindowConfig{
		Title: c.AppName,
		Size:  linmath.Vec2{float32(c.WindowWidth), float32(c.WindowHeight)},
	}
}

// ParseVersion parses "major.minor.patch". Missing trailing components are
// zero.
func ParseVersion(s string) (driver.Version, error) {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return driver.Version{}, errors.Errorf("invalid version %q", s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return driver.Version{}, errors.Errorf("invalid version %q", s)
		}
		nums[i] = n
	}
	return driver.Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func positiveInt(key string, def int) (int, error) {
	n, err := strconv.Atoi(envy.Get(key, strconv.Itoa(def)))
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	if n <= 0 {
		return 0, errors.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
