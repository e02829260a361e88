package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kkyr/fig"
)

// EnvPrefix prefixes every environment override, e.g. OXYVK_WINDOW_WIDTH.
const EnvPrefix = "OXYVK"

// Config is the application configuration. Zero fields take the value of their default tag.
type Config struct {
	Window struct {
		Title  string `default:"oxy-vk"`
		Width  int    `default:"1280"`
		Height int    `default:"720"`
	}
	Renderer struct {
		AppName         string `default:"oxy-vk"`
		Debug           bool
		Headless        bool
		PresentMode     string `default:"triple"`
		DepthAttachment bool
		LibraryPath     string
	}
	Shaders struct {
		Dir     string `default:"shaders"`
		Watch   bool
		Workers int
	}
	Log struct {
		Debug   bool
		Console bool
		NoColor bool
	}
	Metrics struct {
		Enabled bool
		Addr    string `default:":9090"`
	}
}

// LoadConfig loads config.yaml into config. The path param names a directory holding the file; when empty
// the working directory, ./configs and ~/.oxyvk are searched. A missing file is not an error: defaults and
// environment variables with the OXYVK_ prefix still apply.
func LoadConfig(config any, path string) error {
	dirs := []string{path}
	if path == "" {
		dirs = []string{".", "configs"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".oxyvk"))
		}
	}
	err := fig.Load(config, fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
	if errors.Is(err, fig.ErrFileNotFound) {
		return LoadConfigEnv(config)
	}
	return err
}

// emptyConfig is the document loaded when only defaults and the environment apply.
const emptyConfig = "config.json"

// LoadConfigEnv fills config from defaults and environment variables only. fig always reads a file, so an
// empty document is written to a temporary directory and loaded instead.
func LoadConfigEnv(config any) error {
	dir, err := os.MkdirTemp("", "oxyvk-config")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	if err := os.WriteFile(filepath.Join(dir, emptyConfig), []byte("{}"), 0o600); err != nil {
		return err
	}
	return fig.Load(config, fig.File(emptyConfig), fig.Dirs(dir), fig.UseEnv(EnvPrefix))
}

// Load reads and validates a Config.
//
// Parameters:
//   - path: the directory holding config.yaml, or empty to search the default locations
//
// Returns:
//   - *Config: the loaded configuration
//   - error: a read, parse or validation error
func Load(path string) (*Config, error) {
	var c Config
	if err := LoadConfig(&c, path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values no component can use.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Shaders.Workers < 0:
		return fmt.Errorf("config: shaders.workers %d must not be negative", c.Shaders.Workers)
	}
	switch c.Renderer.PresentMode {
	case "vsync", "uncapped", "triple":
	default:
		return fmt.Errorf("config: unknown renderer.presentMode %q", c.Renderer.PresentMode)
	}
	return nil
}
