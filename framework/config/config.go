// Package config reads the options of a test run from YAML.
//
//	run: ["math"]          # only run tests whose ID matches one of these patterns
//	skip: ["math/slow.*"]  # never run tests whose ID matches one of these patterns
//	timeout: 5s            # per-case time limit; 0 or absent means none
//	concurrent: true       # run cases on a worker pool
//	workers: 4             # pool size; 0 means one worker per CPU
//	threadScoped: false    # run every case on its own OS thread
//	scoped: true           # give every case a fresh Scope
//	junit: results.xml     # also write JUnit XML here
//	debug: true            # print debug output of failed cases
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/launchdarkly/test-tree/framework/runners"

	"gopkg.in/yaml.v3"
)

// Config contains the options for a test run.
type Config struct {
	Filters      runners.RegexFilters
	Timeout      time.Duration
	Concurrent   bool
	Workers      int
	ThreadScoped bool
	Scoped       bool
	JUnitFile    string
	Debug        bool
}

type configYAML struct {
	Run          []string `yaml:"run"`
	Skip         []string `yaml:"skip"`
	Timeout      string   `yaml:"timeout"`
	Concurrent   bool     `yaml:"concurrent"`
	Workers      int      `yaml:"workers"`
	ThreadScoped bool     `yaml:"threadScoped"`
	Scoped       bool     `yaml:"scoped"`
	JUnitFile    string   `yaml:"junit"`
	Debug        bool     `yaml:"debug"`
}

// Load reads a Config from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}
	config, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Parse reads a Config from YAML data.
func Parse(data []byte) (Config, error) {
	var raw configYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, err
	}
	var c Config
	for _, p := range raw.Run {
		if err := c.Filters.MustMatch.Set(p); err != nil {
			return Config{}, fmt.Errorf("run: %w", err)
		}
	}
	for _, p := range raw.Skip {
		if err := c.Filters.MustNotMatch.Set(p); err != nil {
			return Config{}, fmt.Errorf("skip: %w", err)
		}
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	c.Concurrent = raw.Concurrent
	c.Workers = raw.Workers
	c.ThreadScoped = raw.ThreadScoped
	c.Scoped = raw.Scoped
	c.JUnitFile = raw.JUnitFile
	c.Debug = raw.Debug
	return c, c.Validate()
}

// Validate checks option values that Parse cannot reject on its own.
func (c Config) Validate() error {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.Workers < 0 {
		errs = append(errs, errors.New("workers must not be negative"))
	}
	if c.Workers > 0 && !c.Concurrent {
		errs = append(errs, errors.New("workers is only meaningful with concurrent: true"))
	}
	return errors.Join(errs...)
}
