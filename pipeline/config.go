package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// OutputFormat names a way of writing extracted stages.
type OutputFormat string

const (
	// OutputJSON writes the stage list as indented JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML writes the stage list as YAML.
	OutputYAML OutputFormat = "yaml"
	// OutputPipeline writes the stages back as canonical pipeline source.
	OutputPipeline OutputFormat = "pipeline"
)

// OutputFormats returns every supported [OutputFormat] as strings.
func OutputFormats() []string {
	return []string{string(OutputJSON), string(OutputYAML), string(OutputPipeline)}
}

// Flags holds CLI flag names for stage extraction configuration, allowing
// callers to customize flag names while keeping sensible defaults.
type Flags struct {
	Output      string
	Format      string
	Indent      string
	EnabledOnly string
}

// Config holds CLI flag values for stage extraction.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewParser] to create a [Parser].
type Config struct {
	Flags       Flags
	Output      string
	Format      string
	Indent      int
	EnabledOnly bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Output:      "output",
		Format:      "format",
		Indent:      "indent",
		EnabledOnly: "enabled-only",
	}

	return &Config{Flags: f, Format: string(OutputJSON), Indent: 2}
}

// RegisterFlags adds stage extraction flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Output, c.Flags.Output, "o", "-",
		"output file path (- for stdout)")
	flags.StringVarP(&c.Format, c.Flags.Format, "f", string(OutputJSON),
		fmt.Sprintf("output format, one of: %s", strings.Join(OutputFormats(), ", ")))
	flags.IntVar(&c.Indent, c.Flags.Indent, 2,
		"spaces per indent level in rendered stage sources")
	flags.BoolVar(&c.EnabledOnly, c.Flags.EnabledOnly, false,
		"omit disabled (commented out) stages from the output")
}

// RegisterCompletions registers shell completions for stage extraction flags
// on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(OutputFormats(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Format, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Indent,
		cobra.FixedCompletions(nil, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Indent, err)
	}

	return nil
}

// OutputFormat validates and returns the configured [OutputFormat].
func (c *Config) OutputFormat() (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(c.Format))
	if !slices.Contains(OutputFormats(), string(f)) {
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidOption, c.Format)
	}

	return f, nil
}

// NewParser creates a [Parser] using this [Config].
func (c *Config) NewParser(opts ...Option) (*Parser, error) {
	if c.Indent < 1 || c.Indent > 8 {
		return nil, fmt.Errorf("%w: indent must be between 1 and 8, got %d", ErrInvalidOption, c.Indent)
	}

	_, err := c.OutputFormat()
	if err != nil {
		return nil, err
	}

	opts = append([]Option{WithIndent(strings.Repeat(" ", c.Indent))}, opts...)

	return NewParser(opts...), nil
}
