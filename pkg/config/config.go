// Package config defines the options that govern how links inside rendered
// documentation are validated: whether external web links are followed,
// whether relative links may escape the book's source tree, which link
// patterns are skipped, which user agent is presented to remote servers and
// how long cached results stay valid.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"linkcheck/pkg/version"
)

// DefaultCacheTimeout is how long a cached link-check result is valid for.
const DefaultCacheTimeout = 12 * time.Hour

// DefaultUserAgent identifies linkcheck to remote servers. Derived from the
// build metadata so the default constructor and the decoder fallback agree.
var DefaultUserAgent = fmt.Sprintf("%s-%s", version.Name, version.Version.Version)

type Config struct {
	// FollowWebLinks turns on validation of links pointing outside the
	// book. Off by default because it is expensive.
	FollowWebLinks bool
	// TraverseParentDirectories allows relative links to resolve above
	// the book's root.
	TraverseParentDirectories bool
	// Exclude lists patterns; a link matching any of them is skipped
	// entirely.
	Exclude   []Pattern
	UserAgent string
	// CacheTimeout is the number of seconds a cached result is valid for.
	CacheTimeout uint64
}

// wire mirrors Config on the TOML surface. Exclude stays textual here so a
// bad pattern surfaces as errs.InvalidPatternError instead of a toml error,
// and so serialization emits the original source text of each pattern.
type wire struct {
	FollowWebLinks            bool     `toml:"follow-web-links"`
	TraverseParentDirectories bool     `toml:"traverse-parent-directories"`
	Exclude                   []string `toml:"exclude"`
	UserAgent                 string   `toml:"user-agent"`
	CacheTimeout              uint64   `toml:"cache-timeout"`
}

// Default generates default config
func Default() *Config {
	return &Config{
		Exclude:      []Pattern{},
		UserAgent:    DefaultUserAgent,
		CacheTimeout: uint64(DefaultCacheTimeout / time.Second),
	}
}

func defaultWire() wire {
	return wire{
		Exclude:      []string{},
		UserAgent:    DefaultUserAgent,
		CacheTimeout: uint64(DefaultCacheTimeout / time.Second),
	}
}

// Parse decodes a TOML document. Keys absent from the input keep their
// defaults, unknown keys are the host format's business and never fail.
// Every exclude entry must compile; on the first failure no config is
// produced at all.
func Parse(r io.Reader) (*Config, error) {
	w := defaultWire()
	if _, err := toml.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("can't decode config: %w", err)
	}
	exclude := make([]Pattern, 0, len(w.Exclude))
	for _, src := range w.Exclude {
		p, err := CompilePattern(src)
		if err != nil {
			return nil, err
		}
		exclude = append(exclude, p)
	}
	return &Config{
		FollowWebLinks:            w.FollowWebLinks,
		TraverseParentDirectories: w.TraverseParentDirectories,
		Exclude:                   exclude,
		UserAgent:                 w.UserAgent,
		CacheTimeout:              w.CacheTimeout,
	}, nil
}

// Write emits the config as TOML in canonical key order. Exclude patterns
// are written as the exact source text they were compiled from, which keeps
// the output stable across load/save cycles.
func (cfg *Config) Write(w io.Writer) error {
	exclude := make([]string, 0, len(cfg.Exclude))
	for _, p := range cfg.Exclude {
		exclude = append(exclude, p.String())
	}
	return toml.NewEncoder(w).Encode(wire{
		FollowWebLinks:            cfg.FollowWebLinks,
		TraverseParentDirectories: cfg.TraverseParentDirectories,
		Exclude:                   exclude,
		UserAgent:                 cfg.UserAgent,
		CacheTimeout:              cfg.CacheTimeout,
	})
}

// ShouldSkip reports whether the link matches any exclude pattern. The first
// hit wins; pattern order never changes the answer, only how fast it comes.
func (cfg *Config) ShouldSkip(link string) bool {
	for _, p := range cfg.Exclude {
		if p.MatchString(link) {
			return true
		}
	}
	return false
}

// Equal compares two configs structurally. Exclude patterns compare by
// original source text, pairwise in sequence order.
func (cfg *Config) Equal(other *Config) bool {
	if cfg == nil || other == nil {
		return cfg == other
	}
	if cfg.FollowWebLinks != other.FollowWebLinks ||
		cfg.TraverseParentDirectories != other.TraverseParentDirectories ||
		cfg.UserAgent != other.UserAgent ||
		cfg.CacheTimeout != other.CacheTimeout ||
		len(cfg.Exclude) != len(other.Exclude) {
		return false
	}
	for i, p := range cfg.Exclude {
		if p.String() != other.Exclude[i].String() {
			return false
		}
	}
	return true
}
