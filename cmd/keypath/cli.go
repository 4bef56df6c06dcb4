package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/coregx/coregex"

	"github.com/kolkov/keypath"
	"github.com/kolkov/keypath/internal/types"
)

// errAbsent is returned by has when the pattern reaches nothing.
var errAbsent = errors.New("absent")

// cli is the top-level command-line interface.
type cli struct {
	Format     string           `default:"json" enum:"json,yaml"                  help:"Output format."             short:"o"`
	LogLevel   string           `default:"warn" enum:"debug,info,warn,error"      help:"Set log level."             name:"log-level"`
	Profile    string           `default:""     enum:",${profileModes}"           help:"Enable profiling."          placeholder:"MODE"`
	ProfileDir string           `default:"."                                      help:"Profile output directory."  name:"profile-dir" type:"path"`
	Version    kong.VersionFlag `help:"Print version and exit."`

	Get    getCmd    `cmd:"" help:"Print the value a pattern reaches."`
	Set    setCmd    `cmd:"" help:"Assign a value and print the updated document."`
	Has    hasCmd    `cmd:"" help:"Exit with status 1 when a pattern reaches nothing."`
	Keys   keysCmd   `cmd:"" help:"List the keys of the value a pattern reaches."`
	Tokens tokensCmd `cmd:"" help:"Print the tokens of a pattern."`
	AST    astCmd    `cmd:"" help:"Print the canonical form and syntax tree of a pattern." name:"ast"`
}

// env carries what every command needs once flags are parsed.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
	cache  *keypath.Cache
	format string
}

func run(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stdout, stderr io.Writer,
	exit func(code int),
) error {
	var c cli

	parser, err := kong.New(&c,
		kong.Name("keypath"),
		kong.Description("Query and update YAML or JSON documents with path expressions."),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version":      versionString(),
			"profileModes": strings.Join(profileModes(), ","),
		},
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, c.LogLevel)
	defer startProfile(ctx, logger, c.Profile, c.ProfileDir).Stop()

	e := &env{
		stdin:  stdin,
		stdout: stdout,
		logger: logger,
		cache:  keypath.NewCache(&keypath.Config{Logger: logger}),
		format: c.Format,
	}
	return ktx.Run(e)
}

// input selects the document a command reads.
type input struct {
	File string `default:"-" help:"Input document, YAML or JSON ('-' for stdin)." placeholder:"FILE" short:"f"`
}

func (in input) load(e *env) (keypath.Value, error) {
	return readDocument(e.stdin, in.File)
}

type getCmd struct {
	Pattern string   `arg:""      help:"Path expression."`
	Args    []string `arg:""      help:"Placeholder values, parsed as YAML scalars." optional:""`
	Lookup  string   `help:"Lookup value as JSON or YAML; replaces ARG." placeholder:"JSON"`
	Input   input    `embed:""`
}

func (c *getCmd) Run(ctx context.Context, e *env) error {
	expr, err := e.cache.Compile(c.Pattern)
	if err != nil {
		return err
	}
	doc, err := c.Input.load(e)
	if err != nil {
		return err
	}
	lookup, err := lookupValue(c.Lookup, c.Args)
	if err != nil {
		return err
	}

	v, err := expr.GetLookup(doc, lookup)
	if err != nil {
		return err
	}
	e.logger.DebugContext(ctx, "get",
		slog.String("pattern", expr.String()),
		slog.String("kind", v.Kind().String()),
	)
	return writeValue(ctx, e.stdout, v, e.format)
}

type setCmd struct {
	Pattern string   `arg:"" help:"Path expression."`
	Value   string   `arg:"" help:"Value to assign, parsed as YAML."`
	Args    []string `arg:"" help:"Placeholder values, parsed as YAML scalars." optional:""`
	Input   input    `embed:""`
}

func (c *setCmd) Run(ctx context.Context, e *env) error {
	expr, err := e.cache.Compile(c.Pattern)
	if err != nil {
		return err
	}
	doc, err := c.Input.load(e)
	if err != nil {
		return err
	}
	val, err := parseValue(c.Value)
	if err != nil {
		return err
	}

	if _, err := expr.SetLookup(doc, val, argValues(c.Args)); err != nil {
		return err
	}
	e.logger.DebugContext(ctx, "set", slog.String("pattern", expr.String()))
	return writeValue(ctx, e.stdout, doc, e.format)
}

type hasCmd struct {
	Pattern string   `arg:"" help:"Path expression."`
	Args    []string `arg:"" help:"Placeholder values, parsed as YAML scalars." optional:""`
	Input   input    `embed:""`
}

func (c *hasCmd) Run(ctx context.Context, e *env) error {
	expr, err := e.cache.Compile(c.Pattern)
	if err != nil {
		return err
	}
	doc, err := c.Input.load(e)
	if err != nil {
		return err
	}

	ok, err := expr.HasLookup(doc, argValues(c.Args))
	if err != nil {
		return err
	}
	if err := writeValue(ctx, e.stdout, types.Bool(ok), e.format); err != nil {
		return err
	}
	if !ok {
		return errAbsent
	}
	return nil
}

type keysCmd struct {
	Pattern string   `arg:""      help:"Path expression."`
	Args    []string `arg:""      help:"Placeholder values, parsed as YAML scalars." optional:""`
	Match   string   `help:"Only list keys matching REGEX." placeholder:"REGEX"`
	Input   input    `embed:""`
}

func (c *keysCmd) Run(ctx context.Context, e *env) error {
	var match *coregex.Regexp
	if c.Match != "" {
		re, err := coregex.Compile(c.Match)
		if err != nil {
			return fmt.Errorf("invalid --match: %w", err)
		}
		match = re
	}

	expr, err := e.cache.Compile(c.Pattern)
	if err != nil {
		return err
	}
	doc, err := c.Input.load(e)
	if err != nil {
		return err
	}
	v, err := expr.GetLookup(doc, argValues(c.Args))
	if err != nil {
		return err
	}

	keys, err := keysOf(v)
	if err != nil {
		return fmt.Errorf("%s: %w", expr, err)
	}
	out := types.NewList()
	for _, k := range keys {
		if match == nil || match.MatchString(k) {
			out.Append(types.Str(k))
		}
	}
	return writeValue(ctx, e.stdout, types.FromList(out), e.format)
}

// keysOf returns the keys of a map in order, or the indices of a list.
func keysOf(v keypath.Value) ([]string, error) {
	switch v.Kind() {
	case types.KindMap:
		return v.Map().Keys(), nil
	case types.KindList:
		keys := make([]string, v.List().Len())
		for i := range keys {
			keys[i] = types.FormatNum(float64(i))
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("%s has no keys", v.Kind())
	}
}

type tokensCmd struct {
	Pattern string `arg:"" help:"Path expression."`
}

func (c *tokensCmd) Run(ctx context.Context, e *env) error {
	expr, err := e.cache.Compile(c.Pattern)
	if err != nil {
		return err
	}
	out := types.NewList()
	for _, tok := range expr.Tokens() {
		m := types.NewMap()
		m.Set("kind", types.Str(tok.Kind))
		m.Set("raw", types.Str(tok.Raw))
		m.Set("line", types.Num(float64(tok.Line)))
		m.Set("column", types.Num(float64(tok.Column)))
		out.Append(types.FromMap(m))
	}
	return writeValue(ctx, e.stdout, types.FromList(out), e.format)
}

type astCmd struct {
	Pattern string `arg:"" help:"Path expression."`
}

func (c *astCmd) Run(_ context.Context, e *env) error {
	expr, err := e.cache.Compile(c.Pattern)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "%s\n\n%s", expr, expr.Dump())
	return err
}
