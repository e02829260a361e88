package config

import "github.com/spf13/pflag"

// Flags are command line overrides. Only flags that were set on the command line are applied.
type Flags struct {
	fs *pflag.FlagSet

	// Path is the directory holding config.yaml.
	Path string

	debug    bool
	headless bool
	watch    bool
	lib      string
	metrics  string
}

// WithFlags registers the override flags on fs.
//
// Parameters:
//   - fs: the flag set, usually pflag.CommandLine
//
// Returns:
//   - *Flags: the bound flags, to be applied after fs is parsed
func WithFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.Path, "conf", "c", "", "Set custom configuration directory")
	fs.BoolVar(&f.debug, "debug", false, "Enable validation output and debug logging")
	fs.BoolVar(&f.headless, "headless", false, "Run without a window")
	fs.BoolVar(&f.watch, "watch", false, "Reload shaders when their files change")
	fs.StringVar(&f.lib, "lib", "", "Vulkan driver library path")
	fs.StringVar(&f.metrics, "metrics", "", "Serve metrics on this address")
	return f
}

// Apply copies the flags that were set onto c.
func (f *Flags) Apply(c *Config) {
	if f.fs.Changed("debug") {
		c.Renderer.Debug = f.debug
		c.Log.Debug = f.debug
	}
	if f.fs.Changed("headless") {
		c.Renderer.Headless = f.headless
	}
	if f.fs.Changed("watch") {
		c.Shaders.Watch = f.watch
	}
	if f.fs.Changed("lib") {
		c.Renderer.LibraryPath = f.lib
	}
	if f.fs.Changed("metrics") {
		c.Metrics.Enabled = f.metrics != ""
		c.Metrics.Addr = f.metrics
	}
}
