package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags names the CLI flags bound by a [Config].
type Flags struct {
	Level   string
	Format  string
	Verbose string
}

// NewConfig creates a new [Config] that binds these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds the logging settings of a command.
//
// Verbose overrides Level with [LevelDebug], which is where stage recovery
// reports comments it could only partly decode and properties it ignored.
type Config struct {
	Level   string
	Format  string
	Flags   Flags
	Verbose bool
}

// NewConfig returns a [Config] bound to the log-level, log-format and
// verbose flags.
func NewConfig() *Config {
	f := Flags{
		Level:   "log-level",
		Format:  "log-format",
		Verbose: "verbose",
	}

	return f.NewConfig()
}

// RegisterFlags adds logging flags to flags. The verbose flag gets the -v
// shorthand.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, string(LevelInfo),
		fmt.Sprintf("log level, one of: %s", strings.Join(GetAllLevelStrings(), ", ")))
	flags.StringVar(&c.Format, c.Flags.Format, string(FormatText),
		fmt.Sprintf("log format, one of: %s", strings.Join(GetAllFormatStrings(), ", ")))
	flags.BoolVarP(&c.Verbose, c.Flags.Verbose, "v", false,
		fmt.Sprintf("log at debug level, overriding --%s", c.Flags.Level))
}

// RegisterCompletions registers shell completions for the level and format
// flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	completions := map[string][]string{
		c.Flags.Level:  GetAllLevelStrings(),
		c.Flags.Format: GetAllFormatStrings(),
	}

	for flag, values := range completions {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// level returns the effective level name.
func (c *Config) level() string {
	if c.Verbose {
		return string(LevelDebug)
	}

	return c.Level
}

// NewHandler creates a [slog.Handler] that writes to w at the configured
// level and format. Errors wrap [ErrInvalidArgument].
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerFromStrings(w, c.level(), c.Format)
}

// NewLogger is [Config.NewHandler] wrapped in a [*slog.Logger].
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	handler, err := c.NewHandler(w)
	if err != nil {
		return nil, err
	}

	return slog.New(handler), nil
}
