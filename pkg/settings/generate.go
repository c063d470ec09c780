package settings

import (
	"os"
	"path/filepath"

	tomlenc "github.com/pelletier/go-toml/v2"

	"github.com/rebarcfg/rebarcfg/pkg/errors"
)

// WriteDefault writes the built-in settings to path as a TOML file the user
// can edit, creating parent directories as needed. It refuses to overwrite
// an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrInvalidInput, "settings file %s already exists", path)
	}

	data, err := tomlenc.Marshal(defaultMap())
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot marshal default settings")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", path)
	}
	return nil
}
