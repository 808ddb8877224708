package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appName      = "docsift"
	artifactExt  = ".dsft"
	localDirName = ".docsift"
)

// ConfigDir returns the XDG configuration directory for docsift.
// Uses $XDG_CONFIG_HOME/docsift or ~/.config/docsift on Unix.
// On macOS, uses ~/Library/Application Support/docsift.
func ConfigDir() (string, error) {
	if homeOverride := os.Getenv("DOCSIFT_HOME"); homeOverride != "" {
		return filepath.Join(homeOverride, "config"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", appName), nil
	}

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}

	return filepath.Join(home, ".config", appName), nil
}

// DataDir returns the XDG data directory for docsift.
// Uses $XDG_DATA_HOME/docsift or ~/.local/share/docsift on Unix.
func DataDir() (string, error) {
	if homeOverride := os.Getenv("DOCSIFT_HOME"); homeOverride != "" {
		return filepath.Join(homeOverride, "data"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", appName), nil
	}

	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}

	return filepath.Join(home, ".local", "share", appName), nil
}

// FilePath returns the configuration file path. DOCSIFT_CONFIG overrides it.
func FilePath() (string, error) {
	if path := os.Getenv("DOCSIFT_CONFIG"); path != "" {
		return path, nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// ResolveIndexPath converts an artifact name or path to a file path.
//
// An empty value means <root>/.docsift/index.dsft. A bare name without
// separators or extension resolves to <data dir>/<name>.dsft. Anything else
// is used as given.
func ResolveIndexPath(nameOrPath, root string) (string, error) {
	if nameOrPath == "" {
		if root == "" {
			root = "."
		}
		return filepath.Join(root, localDirName, "index"+artifactExt), nil
	}

	if filepath.IsAbs(nameOrPath) || strings.ContainsRune(nameOrPath, os.PathSeparator) ||
		strings.ContainsRune(nameOrPath, '/') || filepath.Ext(nameOrPath) != "" {
		return nameOrPath, nil
	}

	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, nameOrPath+artifactExt), nil
}

// IndexPath resolves the artifact location for cfg.
func (cfg *Config) IndexPath() (string, error) {
	return ResolveIndexPath(cfg.Index.Path, cfg.Corpus.Root)
}
