package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Kagamine/DataProtection/logger"
)

// FileSystem abstracts the file probes the loader performs, so tests can
// resolve paths without touching disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	Getwd() (string, error)
}

// osFileSystem is the FileSystem used outside tests.
type osFileSystem struct{}

func (osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFileSystem) LoadEnv(path string) error { return godotenv.Load(path) }

func (osFileSystem) Getwd() (string, error) { return os.Getwd() }

// LoaderConfig holds the loader's dependencies and optional explicit
// file paths.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption customizes LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem substitutes the filesystem used for path probes.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile pins the config file path instead of searching.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile pins the .env file path instead of searching.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Resolver locates config and env files for an application.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles is the outcome of a resolve pass. Empty fields mean the
// file was neither given nor found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles keeps explicit paths from opts and searches standard
// locations for the rest.
func (cr *Resolver) ResolveFiles(appName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.firstExisting(configSearchPaths(appName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.firstExisting(envSearchPaths(appName))
	}

	return resolved
}

func (cr *Resolver) firstExisting(paths []string) string {
	for _, path := range paths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// Search paths are relative because tests and tools run from package
// directories, up to two levels below the repo root.

func configSearchPaths(appName string) []string {
	return []string{
		"./cmd/" + appName + "/config.yml",
		"../cmd/" + appName + "/config.yml",
		"../../cmd/" + appName + "/config.yml",
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	}
}

func envSearchPaths(appName string) []string {
	roots := []string{
		"./cmd/" + appName,
		"../cmd/" + appName,
		"../../cmd/" + appName,
		"./config",
		"../config",
		".",
		"..",
		"../..",
	}

	paths := make([]string, 0, 2*len(roots))
	for _, name := range []string{".env." + appName, ".env"} {
		for _, root := range roots {
			paths = append(paths, root+"/"+name)
		}
	}
	return paths
}

// LoadConfig fills cfg for an application: YAML config first, then
// environment variables and an optional .env file on top. A missing
// config file is not an error; the environment alone may be enough.
func LoadConfig(appName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = osFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(appName, lc)

	return readInto(appName, cfg, files, lc.FileSystem)
}

func readInto(appName string, cfg interface{}, files ResolvedFiles, fs FileSystem) error {
	v := viper.New()

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("config file unreadable, continuing without it",
				logger.Fields("path", files.ConfigFile, "error", err.Error()))
		}
	}

	v.AutomaticEnv()
	bindEnviron(v)

	// Values from .env land in the process environment, so bind again
	// after loading it.
	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("env file unreadable, continuing without it",
				logger.Fields("path", files.EnvFile, "error", err.Error()))
		} else {
			bindEnviron(v)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config for %s: %w", appName, err)
	}
	return nil
}

func bindEnviron(v *viper.Viper) {
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		for _, variant := range generateEnvKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants lowercases an environment key and produces the
// viper key spellings it could map to. An underscore may separate nesting
// levels or words inside one field name, so every split point is
// generated: OBSERVABILITY_SAMPLE_RATE yields observability_sample_rate,
// observability.sample.rate and observability.sample_rate among others.
func generateEnvKeyVariants(envKey string) []string {
	key := strings.ToLower(envKey)
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return []string{key}
	}

	variants := []string{key, strings.ReplaceAll(key, "_", ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
