// Package config loads the optional dmztools.yml preferences file shared by
// the GUI, the CLIs and the web server. Missing keys keep their defaults.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"example.com/dmztools/internal/icon"
	"example.com/dmztools/internal/outname"
	"example.com/dmztools/internal/qr"
)

// Config holds user preferences loaded from dmztools.yml. It is only ever
// read; nothing about a session is written back.
type Config struct {
	LogLevel string      `yaml:"logLevel,omitempty"`
	Merge    MergeConfig `yaml:"merge,omitempty"`
	QR       QRConfig    `yaml:"qr,omitempty"`
	Icon     IconConfig  `yaml:"icon,omitempty"`
	Web      WebConfig   `yaml:"web,omitempty"`
}

// MergeConfig configures PDF merging.
type MergeConfig struct {
	DefaultName string `yaml:"defaultName,omitempty"`
	// DownloadDir receives PDFs fetched from URLs. Empty selects the user
	// cache dir.
	DownloadDir string `yaml:"downloadDir,omitempty"`
}

// QRConfig configures QR code generation. Level is one of low, medium,
// high or highest.
type QRConfig struct {
	DefaultName  string `yaml:"defaultName,omitempty"`
	OutputDir    string `yaml:"outputDir,omitempty"`
	Level        string `yaml:"level,omitempty"`
	ModulePixels int    `yaml:"modulePixels,omitempty"`
}

// IconConfig lists the frame sizes written into ICO files.
type IconConfig struct {
	Sizes []int `yaml:"sizes,omitempty"`
}

// WebConfig configures the merge web server. Root is the directory whose
// PDFs are offered for merging.
type WebConfig struct {
	Addr string `yaml:"addr,omitempty"`
	Root string `yaml:"root,omitempty"`
}

// FileNames are tried in order inside each search directory.
var FileNames = []string{"dmztools.yml", "dmztools.yaml"}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Merge:    MergeConfig{DefaultName: outname.DefaultMergeBase},
		QR: QRConfig{
			DefaultName:  outname.DefaultQRBase,
			Level:        "medium",
			ModulePixels: qr.DefaultModulePixels,
		},
		Icon: IconConfig{Sizes: append([]int(nil), icon.DefaultSizes...)},
		Web:  WebConfig{Addr: ":8080", Root: "pdfs"},
	}
}

// SearchDirs returns the working directory followed by the per-user config
// directory.
func SearchDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if ucd, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(ucd, "dmztools"))
	}
	return dirs
}

// Load reads the first config file found in dirs and overlays it on the
// defaults. A missing file is not an error.
func Load(dirs ...string) (*Config, error) {
	cfg := Default()
	for _, dir := range dirs {
		for _, name := range FileNames {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
			cfg.fillDefaults()
			return cfg, nil
		}
	}
	return cfg, nil
}

// Find loads path when it is set and searches SearchDirs otherwise.
func Find(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	return Load(SearchDirs()...)
}

// LoadFile reads one explicit config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores fields a config file blanked out explicitly.
func (c *Config) fillDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Merge.DefaultName == "" {
		c.Merge.DefaultName = d.Merge.DefaultName
	}
	if c.QR.DefaultName == "" {
		c.QR.DefaultName = d.QR.DefaultName
	}
	if c.QR.ModulePixels <= 0 {
		c.QR.ModulePixels = d.QR.ModulePixels
	}
	if len(c.Icon.Sizes) == 0 {
		c.Icon.Sizes = d.Icon.Sizes
	}
	if c.Web.Addr == "" {
		c.Web.Addr = d.Web.Addr
	}
	if c.Web.Root == "" {
		c.Web.Root = d.Web.Root
	}
}
