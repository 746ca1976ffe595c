package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"go.jacobcolvin.com/aggstage/jsexpr"
)

// Sentinel errors returned by the parser and its callers.
var (
	ErrParse         = errors.New("unable to parse the pipeline source")
	ErrNotPipeline   = errors.New("unable to extract pipeline stages: the provided input is not an array of objects")
	ErrInvalidOption = errors.New("invalid option")
	ErrReadInput     = errors.New("read input")
	ErrWriteOutput   = errors.New("write output")
)

// Stage is one step of a pipeline.
type Stage struct {
	// Operator is the stage's directive name, such as "$match". It is empty
	// when a disabled stage's comment did not start with one.
	Operator string `json:"operator" yaml:"operator" jsonschema:"stage operator such as $match; empty when it could not be recovered"`
	// Source is the canonical rendering of the operator's argument.
	Source string `json:"source" yaml:"source" jsonschema:"canonical source of the stage argument"`
	// Enabled is false when the stage's body exists only as a comment.
	Enabled bool `json:"isEnabled" yaml:"isEnabled" jsonschema:"false when the stage body is commented out"`
}

// Parser extracts [Stage] lists from pipeline source text.
//
// A Parser holds only configuration and is safe for concurrent use.
//
// Create instances with [NewParser].
type Parser struct {
	logger   *slog.Logger
	renderer jsexpr.Renderer
}

// Option configures a Parser.
type Option func(*Parser)

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithIndent sets the indent unit used when rendering stage sources.
// The default is two spaces.
func WithIndent(indent string) Option {
	return func(p *Parser) {
		p.renderer.Indent = indent
	}
}

// WithLogger sets the logger for diagnostics about degraded stages.
// The default is [slog.Default] at the time of each call.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parse extracts stages from input using a default [Parser].
func Parse(input string) ([]Stage, error) {
	return NewParser().Parse(input)
}

// Parse extracts the stages of the pipeline written in input.
//
// The result has one [Stage] per element of the top-level array, in source
// order. Parse returns an error wrapping [ErrParse] when input cannot be
// parsed, and [ErrNotPipeline] when it parses but is not a single array
// literal of object literals. A malformed disabled stage never fails the
// whole pipeline; it degrades to an empty operator or source instead.
func (p *Parser) Parse(input string) ([]Stage, error) {
	prog, err := jsexpr.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	objects, ok := stageObjects(prog)
	if !ok {
		return nil, ErrNotPipeline
	}

	stages := make([]Stage, 0, len(objects))

	for i, obj := range objects {
		stages = append(stages, p.objectToStage(input, i, obj))
	}

	return stages, nil
}

// stageObjects returns the elements of prog's top-level array if prog is
// exactly one expression statement holding an array of object literals.
func stageObjects(prog *jsexpr.Program) ([]*jsexpr.Object, bool) {
	if len(prog.Statements) != 1 {
		return nil, false
	}

	stmt, ok := prog.Statements[0].(*jsexpr.ExprStatement)
	if !ok {
		return nil, false
	}

	arr, ok := stmt.X.(*jsexpr.Array)
	if !ok {
		return nil, false
	}

	objects := make([]*jsexpr.Object, 0, len(arr.Elements))

	for _, elem := range arr.Elements {
		switch e := elem.(type) {
		case *jsexpr.Object:
			objects = append(objects, e)
		default:
			return nil, false
		}
	}

	return objects, true
}

func (p *Parser) objectToStage(input string, index int, obj *jsexpr.Object) Stage {
	if len(obj.Properties) == 0 {
		d := p.decodeComment(obj.Range().Text(input), index)

		return Stage{Operator: d.Operator, Source: d.Source, Enabled: false}
	}

	// Only the first key is the operator.
	if len(obj.Properties) > 1 {
		p.log().Debug("ignoring extra stage properties",
			slog.Int("stage", index),
			slog.Int("properties", len(obj.Properties)),
		)
	}

	prop := obj.Properties[0]

	return Stage{
		Operator: jsexpr.KeyName(prop),
		Source:   p.renderer.Render(prop.Value),
		Enabled:  true,
	}
}

func (p *Parser) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}

	return slog.Default()
}

// Enabled returns the enabled stages of stages, in order.
func Enabled(stages []Stage) []Stage {
	enabled := make([]Stage, 0, len(stages))

	for _, s := range stages {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}

	return enabled
}
