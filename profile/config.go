package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ErrUnknownProfile indicates a profile name that is not one of [Kinds].
var ErrUnknownProfile = errors.New("unknown profile")

// Profile names accepted by --profile.
const (
	CPU       = "cpu"
	Heap      = "heap"
	Allocs    = "allocs"
	Goroutine = "goroutine"
	Block     = "block"
	Mutex     = "mutex"
)

// Kinds returns every supported profile name.
func Kinds() []string {
	return []string{CPU, Heap, Allocs, Goroutine, Block, Mutex}
}

// Flags holds CLI flag names for profiling configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Profiles string
	Dir      string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
		Dir:   ".",
	}
}

// Config selects which profiles to write and where. A zero-value Config has
// all profiles disabled.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler].
type Config struct {
	Flags    Flags
	Dir      string
	Profiles []string
}

// NewConfig creates a new [Config] with default flag names and all profiles
// disabled.
func NewConfig() *Config {
	f := Flags{
		Profiles: "profile",
		Dir:      "profile-dir",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringSliceVar(&c.Profiles, c.Flags.Profiles, nil,
		fmt.Sprintf("profiles to write, any of: %s", strings.Join(Kinds(), ", ")))
	flags.StringVar(&c.Dir, c.Flags.Dir, ".",
		"directory for <name>.pprof profile files")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Profiles,
		cobra.FixedCompletions(Kinds(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Profiles, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Dir,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Dir, err)
	}

	return nil
}

// NewProfiler creates a [Profiler] using this [Config]. Profile names are
// case-insensitive and duplicates are ignored.
func (c *Config) NewProfiler() (*Profiler, error) {
	p := &Profiler{dir: c.Dir}

	for _, name := range c.Profiles {
		name = strings.ToLower(strings.TrimSpace(name))
		if !slices.Contains(Kinds(), name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
		}

		if !slices.Contains(p.kinds, name) {
			p.kinds = append(p.kinds, name)
		}
	}

	return p, nil
}
