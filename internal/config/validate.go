package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StorageDir) == "" {
		return errors.New("paths.storage_dir must be set")
	}
	if !filepath.IsAbs(c.Paths.StorageDir) {
		return fmt.Errorf("paths.storage_dir must be absolute, got %q", c.Paths.StorageDir)
	}
	if strings.TrimSpace(c.Paths.RegistryPath) == "" {
		return errors.New("paths.registry_path must be set")
	}
	return nil
}

func (c *Config) validateImport() error {
	if strings.ContainsAny(c.Import.DataDirName, "/\\") {
		return fmt.Errorf("import.data_dir_name must be a bare directory name, got %q", c.Import.DataDirName)
	}
	for _, r := range c.Import.FastqReadPrefix {
		valid := r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !valid {
			return fmt.Errorf("import.fastq_read_prefix contains unsupported character %q", r)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
