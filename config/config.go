// Package config holds the run configuration of the trainkit command.
package config

import "errors"
import "fmt"
import "os"

import "gopkg.in/yaml.v3"

var ErrInvalid = errors.New("config: invalid value")

// Config holds all trainkit configuration.
type Config struct {
	Experiment ExperimentConfig `yaml:"experiment"`
	Train      TrainConfig      `yaml:"train"`
	Latency    LatencyConfig    `yaml:"latency"`
	Log        LogConfig        `yaml:"log"`
}

// ExperimentConfig configures where runs are stored.
type ExperimentConfig struct {
	Root      string `yaml:"root"`       // parent directory of experiment directories
	Name      string `yaml:"name"`       // empty means generated
	NetConfig string `yaml:"net_config"` // optional file whose first line names the network
}

// TrainConfig configures the demo training loop.
type TrainConfig struct {
	Epochs         int     `yaml:"epochs"`
	BatchSize      int     `yaml:"batch_size"`
	Hidden         int     `yaml:"hidden"`
	LearningRate   float64 `yaml:"learning_rate"`
	LabelSmoothing float64 `yaml:"label_smoothing"`
	DropPathProb   float64 `yaml:"drop_path_prob"`
	TrainRatio     float64 `yaml:"train_ratio"`
	Seed           int64   `yaml:"seed"`
	Resume         string  `yaml:"resume"` // model file to start from
}

// LatencyConfig configures latency benchmarks.
type LatencyConfig struct {
	Mode      string `yaml:"mode"` // cpu or gpu
	InputSize []int  `yaml:"input_size"`
	BatchSize int    `yaml:"batch_size"`
	MeasTimes int    `yaml:"meas_times"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built in configuration.
func DefaultConfig() *Config {
	return &Config{
		Experiment: ExperimentConfig{
			Root: "experiments",
		},
		Train: TrainConfig{
			Epochs:         30,
			BatchSize:      64,
			Hidden:         64,
			LearningRate:   0.1,
			LabelSmoothing: 0.1,
			DropPathProb:   0.1,
			TrainRatio:     0.8,
			Seed:           1,
		},
		Latency: LatencyConfig{
			Mode:      "cpu",
			InputSize: []int{10},
			BatchSize: 32,
			MeasTimes: 300,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	t := c.Train
	switch {
	case t.Epochs < 0:
		return fmt.Errorf("%w: train.epochs %d", ErrInvalid, t.Epochs)
	case t.BatchSize <= 0:
		return fmt.Errorf("%w: train.batch_size %d", ErrInvalid, t.BatchSize)
	case t.Hidden <= 0:
		return fmt.Errorf("%w: train.hidden %d", ErrInvalid, t.Hidden)
	case t.LearningRate <= 0:
		return fmt.Errorf("%w: train.learning_rate %v", ErrInvalid, t.LearningRate)
	case t.LabelSmoothing < 0 || t.LabelSmoothing > 1:
		return fmt.Errorf("%w: train.label_smoothing %v", ErrInvalid, t.LabelSmoothing)
	case t.DropPathProb < 0 || t.DropPathProb >= 1:
		return fmt.Errorf("%w: train.drop_path_prob %v", ErrInvalid, t.DropPathProb)
	case t.TrainRatio <= 0 || t.TrainRatio >= 1:
		return fmt.Errorf("%w: train.train_ratio %v", ErrInvalid, t.TrainRatio)
	}
	if m := c.Latency.Mode; m != "cpu" && m != "gpu" {
		return fmt.Errorf("%w: latency.mode %q", ErrInvalid, m)
	}
	if c.Latency.BatchSize <= 0 || len(c.Latency.InputSize) == 0 {
		return fmt.Errorf("%w: latency input %v batch %d", ErrInvalid, c.Latency.InputSize, c.Latency.BatchSize)
	}
	return nil
}
