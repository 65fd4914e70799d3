package lambdakernel

import (
	"bytes"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"min=0,max=65535"`
	// DataFile is the bolt file proofs are kept in. Empty keeps them in
	// memory only.
	DataFile string `yaml:"data_file"`

	DefaultFuel int `yaml:"default_fuel" validate:"min=0,ltefield=MaxFuel"`
	MaxFuel     int `yaml:"max_fuel" validate:"min=1"`
	// CheckConsistency runs both subjects of a verification through the
	// inconsistency detector first.
	CheckConsistency bool `yaml:"check_consistency"`

	MaxBatch         int `yaml:"max_batch" validate:"min=1"`
	BatchParallelism int `yaml:"batch_parallelism" validate:"min=1"`
}

func DefaultConfig() *Config {
	return &Config{
		Host:             "0.0.0.0",
		Port:             9000,
		DataFile:         "lambdakernel.data",
		DefaultFuel:      1000,
		MaxFuel:          1000000,
		MaxBatch:         64,
		BatchParallelism: 4,
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// LoadConfig reads a YAML config file over the defaults. Unknown keys are
// rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parsing config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
