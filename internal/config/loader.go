package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".ftpripper.yml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File mirrors the optional YAML configuration file. Every field is a
// default that CLI flags override; zero values mean "not set".
//
//	port: 2121
//	threads: 8
//	timeout: 30s
//	delay: 500ms
//	proxy: 127.0.0.1:9050
//	output: results.txt
type File struct {
	// Port is the default FTP port.
	Port int `yaml:"port"`

	// Threads is the default concurrent session count.
	Threads int `yaml:"threads"`

	// Timeout is the default per-operation timeout.
	Timeout time.Duration `yaml:"timeout"`

	// Delay is the default politeness delay between directory listings.
	Delay time.Duration `yaml:"delay"`

	// Proxy is the default SOCKS5 proxy address.
	Proxy string `yaml:"proxy"`

	// Output is the default file-listing destination.
	Output string `yaml:"output"`
}

// LoadConfigFile loads defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers
// decide whether that matters based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in order:
//  1. the explicit path, if given
//  2. .ftpripper.yml in the current directory
//  3. .ftpripper.yml in the XDG config directory
//
// Returns the path found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// ApplyFile copies every set value from the file into fields the user
// left at their defaults. Flags always win: the crawl command applies
// the file before reading flags that were explicitly changed.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Port != 0 {
		c.Port = f.Port
	}
	if f.Threads != 0 {
		c.Threads = f.Threads
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Delay != 0 {
		c.Delay = f.Delay
	}
	if f.Proxy != "" {
		c.Proxy = f.Proxy
	}
	if f.Output != "" {
		c.Output = f.Output
	}
}
