// Package main provides the CLI entry point for aggstage, a tool that lists
// the stages of aggregation pipelines written as editor text, including
// stages that were disabled by commenting them out.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"go.jacobcolvin.com/aggstage/log"
	"go.jacobcolvin.com/aggstage/pipeline"
	"go.jacobcolvin.com/aggstage/profile"
	"go.jacobcolvin.com/aggstage/version"
)

// maxParallel bounds how many inputs are read and parsed at once.
const maxParallel = 8

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := pipeline.NewConfig()
	logCfg := log.NewConfig()
	profCfg := profile.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "aggstage [flags] [file ...]",
		Short: "List the stages of aggregation pipelines",
		Long: `aggstage reads aggregation pipelines written as array literals of stage
objects and prints each stage's operator, canonical source, and whether it is
enabled. Stages whose body is commented out are reported as disabled, with
their operator and source recovered from the comment.

With no file arguments, or with "-", the pipeline is read from stdin.`,
		Args:          cobra.ArbitraryArgs,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prof, err := profCfg.NewProfiler()
			if err != nil {
				return err
			}

			err = prof.Start()
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, prof.Stop())
			}()

			return run(cmd, cfg, logCfg, args)
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())
	profCfg.RegisterFlags(rootCmd.Flags())
	logCfg.RegisterFlags(rootCmd.PersistentFlags())

	completionErr := cfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	completionErr = logCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	completionErr = profCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	rootCmd.AddCommand(newSchemaCommand())

	return rootCmd
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the stage list output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := jsonschema.For[[]pipeline.Stage](nil)
			if err != nil {
				return fmt.Errorf("generate schema: %w", err)
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("%w: %w", pipeline.ErrWriteOutput, err)
			}

			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			if err != nil {
				return fmt.Errorf("%w: %w", pipeline.ErrWriteOutput, err)
			}

			return nil
		},
	}
}

// result is the parsed form of one input.
type result struct {
	name   string
	stages []pipeline.Stage
}

func run(cmd *cobra.Command, cfg *pipeline.Config, logCfg *log.Config, args []string) error {
	logger, err := logCfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}

	p, err := cfg.NewParser(pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("%w: no input files and stdin is a terminal", pipeline.ErrReadInput)
		}

		args = []string{"-"}
	}

	stdin, err := readStdin(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	results := make([]result, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallel)

	for i, arg := range args {
		g.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}

			data := stdin
			name := "stdin"

			if arg != "-" {
				name = arg

				data, err = os.ReadFile(arg)
				if err != nil {
					return fmt.Errorf("%w: %w", pipeline.ErrReadInput, err)
				}
			}

			stages, err := p.Parse(string(data))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			if cfg.EnabledOnly {
				stages = pipeline.Enabled(stages)
			}

			logger.Debug("parsed pipeline",
				slog.String("input", name),
				slog.Int("stages", len(stages)),
			)

			results[i] = result{name: name, stages: stages}

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return err
	}

	out, err := encode(format, cfg.Indent, results)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrWriteOutput, err)
	}

	if cfg.Output == "" || cfg.Output == "-" {
		_, err = cmd.OutOrStdout().Write(out)
		if err != nil {
			return fmt.Errorf("%w: %w", pipeline.ErrWriteOutput, err)
		}

		return nil
	}

	err = os.WriteFile(cfg.Output, out, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrWriteOutput, err)
	}

	return nil
}

// readStdin reads r once if any argument names stdin.
func readStdin(r io.Reader, args []string) ([]byte, error) {
	for _, arg := range args {
		if arg != "-" {
			continue
		}

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %w", pipeline.ErrReadInput, err)
		}

		return data, nil
	}

	return nil, nil
}

// encode writes one document per result, in order. JSON documents are
// newline-delimited, YAML documents are separated by "---", and pipeline
// documents are preceded by a comment naming their input when there is more
// than one.
func encode(format pipeline.OutputFormat, indent int, results []result) ([]byte, error) {
	var buf bytes.Buffer

	for i, r := range results {
		switch format {
		case pipeline.OutputJSON:
			out, err := json.MarshalIndent(r.stages, "", strings.Repeat(" ", indent))
			if err != nil {
				return nil, err
			}

			buf.Write(out)
			buf.WriteByte('\n')

		case pipeline.OutputYAML:
			out, err := yaml.MarshalWithOptions(r.stages,
				yaml.Indent(indent),
				yaml.UseLiteralStyleIfMultiline(true),
			)
			if err != nil {
				return nil, err
			}

			if i > 0 {
				buf.WriteString("---\n")
			}

			buf.Write(out)

		case pipeline.OutputPipeline:
			if len(results) > 1 {
				if i > 0 {
					buf.WriteByte('\n')
				}

				fmt.Fprintf(&buf, "// %s\n", r.name)
			}

			buf.WriteString(pipeline.Format(r.stages))
			buf.WriteByte('\n')
		}
	}

	return buf.Bytes(), nil
}
