// Package config defines the configuration for ftpripper.
//
// Configuration flows one way: CLI flags (optionally backed by a
// .ftpripper.yml file) populate a Config, Validate runs once before
// any connection opens, and the value is passed down by dependency
// injection. No package reads configuration from globals.
package config
