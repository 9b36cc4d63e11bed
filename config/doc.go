// Package config provides configuration loading and validation for
// data protection hosts.
//
// It uses Viper to load configuration from files and environment
// variables, supporting YAML files and environment-specific
// overrides. Environment variables override file values using
// underscore-separated paths (e.g. PROTECTION_ALGORITHM overrides
// protection.algorithm).
//
// # Usage
//
//	var cfg config.Config
//	err := config.LoadConfig("myapp", &cfg)
package config
