package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names a config file explicitly
	EnvConfigPath = "ONNXCUT_CONFIG"
	// ConfigFileName is looked for in the working directory
	ConfigFileName = "onnxcut.yaml"
	// ConfigDirName is the directory under the user and system config roots
	ConfigDirName = "onnxcut"
)

// configCandidates lists where a config file may live, most specific first:
// $ONNXCUT_CONFIG, ./onnxcut.yaml, $XDG_CONFIG_HOME/onnxcut/config.yaml,
// ~/.config/onnxcut/config.yaml and /etc/onnxcut/config.yaml.
func configCandidates() []string {
	candidates := []string{os.Getenv(EnvConfigPath), ConfigFileName}
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		candidates = append(candidates, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(candidates, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing config file, or "" when there is
// none. The file only supplies the base settings: Load still applies .env and
// ONNXCUT_* overrides on top of it, and of the defaults when nothing is found.
func FindConfigPath() string {
	for _, path := range configCandidates() {
		if path == "" || !fileExists(path) {
			continue
		}
		if path == ConfigFileName {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
		}
		return path
	}
	return ""
}

// DefaultConfigPath is where `config init` writes when no --path is given:
// the user config directory, or the working directory without a home.
func DefaultConfigPath() string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, ConfigDirName, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the directory that will hold configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
