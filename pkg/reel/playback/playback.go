// Package playback holds the playback-side configuration of the reel
// application: source and output folders, playback ordering, and the
// skip-frame segmentation table. The scanner treats these settings as
// opaque; it only carries them for the surrounding application.
package playback

import (
	"errors"
	"fmt"
	"time"
)

// OrderMode selects the order in which the player walks a folder.
type OrderMode string

// Supported playback orders.
const (
	OrderSequential OrderMode = "sequential"
	OrderShuffle    OrderMode = "shuffle"
	OrderNewest     OrderMode = "newest-first"
)

// ErrInvalidPlayback indicates an unusable playback configuration.
var ErrInvalidPlayback = errors.New("invalid playback configuration")

// SkipBucket maps clips up to a duration onto a skip-frame step. The
// player seeks in Step increments for any clip whose length is at most
// UpTo.
type SkipBucket struct {
	// UpTo is the inclusive upper bound on clip duration for this bucket.
	UpTo time.Duration `mapstructure:"up_to" json:"up_to"`

	// Step is the seek increment applied inside this bucket.
	Step time.Duration `mapstructure:"step" json:"step"`
}

// Config is the playback configuration consumed by the player.
type Config struct {
	// SourceDir is the folder the player reads clips from.
	SourceDir string `mapstructure:"source_dir" json:"source_dir"`

	// OutputDir is the folder edited clips are written to.
	OutputDir string `mapstructure:"output_dir" json:"output_dir"`

	// Order selects the playback order mode.
	Order OrderMode `mapstructure:"order" json:"order"`

	// SkipBuckets is the skip-frame segmentation table, ordered by UpTo
	// ascending.
	SkipBuckets []SkipBucket `mapstructure:"skip_buckets" json:"skip_buckets"`
}

// Default returns the playback configuration used when none is present.
func Default() Config {
	return Config{
		Order: OrderSequential,
		SkipBuckets: []SkipBucket{
			{UpTo: 2 * time.Minute, Step: 5 * time.Second},
			{UpTo: 15 * time.Minute, Step: 30 * time.Second},
			{UpTo: 2 * time.Hour, Step: 2 * time.Minute},
		},
	}
}

// Validate checks internal consistency of the playback settings.
func (c *Config) Validate() error {
	switch c.Order {
	case "", OrderSequential, OrderShuffle, OrderNewest:
	default:
		return fmt.Errorf("%w: unknown order mode %q", ErrInvalidPlayback, c.Order)
	}

	var prev time.Duration
	for i, b := range c.SkipBuckets {
		if b.UpTo <= 0 || b.Step <= 0 {
			return fmt.Errorf("%w: bucket %d has non-positive durations", ErrInvalidPlayback, i)
		}
		if b.UpTo <= prev {
			return fmt.Errorf("%w: bucket %d not in ascending order", ErrInvalidPlayback, i)
		}
		prev = b.UpTo
	}
	return nil
}

// StepFor returns the skip step for a clip of the given duration, falling
// back to the last bucket's step for clips longer than every bucket.
func (c *Config) StepFor(clip time.Duration) time.Duration {
	for _, b := range c.SkipBuckets {
		if clip <= b.UpTo {
			return b.Step
		}
	}
	if n := len(c.SkipBuckets); n > 0 {
		return c.SkipBuckets[n-1].Step
	}
	return 0
}
