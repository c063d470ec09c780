// Package paths provides centralized path handling for rebarcfg. It
// implements XDG Base Directory compliance with environment overrides for
// every location the tool touches.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvRebarHome overrides the directory cached rebar executables live in
	EnvRebarHome = "REBARCFG_HOME"

	// EnvConfigDir overrides the directory the tool's own settings file
	// lives in
	EnvConfigDir = "REBARCFG_CONFIG_DIR"
)

// AppDirName is the per-application directory name under the XDG roots
const AppDirName = "rebarcfg"

// SettingsFile is the name of the tool's own settings file
const SettingsFile = "rebarcfg.toml"

// RebarHome returns the tool home: the directory locally cached rebar
// executables are looked up in.
func RebarHome() string {
	if dir := os.Getenv(EnvRebarHome); dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, AppDirName)
}

// ConfigDir returns the directory holding the tool's settings file.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// SettingsPath returns the full path of the tool's settings file.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), SettingsFile)
}
