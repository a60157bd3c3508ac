package analyzer

import (
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultWorkers = 5
	maxWorkers     = 32

	// commitsPerWorker sizes the pool down for small commit sets so a
	// handful of commits does not oversubscribe the remote API.
	commitsPerWorker = 5
)

// Config represents attribution engine configuration.
type Config struct {
	// Workers bounds the number of concurrent diff fetches.
	Workers int `yaml:"workers" env:"ANALYZER_WORKERS"`
}

func (c *Config) PrepareAndValidate() error {
	c.Workers = lang.Check(c.Workers, defaultWorkers)
	if c.Workers < 1 || c.Workers > maxWorkers {
		return errm.New("workers must be between 1 and %d", maxWorkers)
	}
	return nil
}

// poolSize returns the worker count to use for the given commit set.
func (c *Config) poolSize(commits int) int {
	size := min(c.Workers, max(1, commits/commitsPerWorker))
	return max(1, size)
}
