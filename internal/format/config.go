package format

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the formatting options.
type Config struct {
	IndentSize  int  `yaml:"indent_size"`
	AlignFields bool `yaml:"align_fields"`
}

// DefaultConfig returns the default formatting options: two-space indent
// with aligned field types.
func DefaultConfig() *Config {
	return &Config{
		IndentSize:  2,
		AlignFields: true,
	}
}

// LoadConfig reads the format section of a project configuration file. A
// missing file means the defaults.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Keys absent from the file keep their default values.
	wrapper := struct {
		Format Config `yaml:"format"`
	}{
		Format: *DefaultConfig(),
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}

	config := &wrapper.Format
	if config.IndentSize <= 0 {
		config.IndentSize = 2
	}

	return config, nil
}

// SaveConfig writes the formatting options back to a configuration file
// under the format key.
func SaveConfig(path string, config *Config) error {
	wrapper := struct {
		Format Config `yaml:"format"`
	}{
		Format: *config,
	}

	data, err := yaml.Marshal(wrapper)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
