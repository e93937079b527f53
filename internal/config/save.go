package config

import (
	"encoding/json"
	"os"

	"github.com/thomas-vilte/commithelper/internal/errors"
)

// SaveConfig writes cfg as indented JSON. An existing file is only replaced
// when overwrite is set.
func SaveConfig(cfg *Config, path string, overwrite bool) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.ErrConfigExists.WithContext("path", path)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.NewAppError(errors.TypeInternal, "Failed to encode configuration", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.ErrConfigWrite.WithError(err).WithContext("path", path)
	}
	return nil
}
