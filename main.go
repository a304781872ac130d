package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/mcncl/blocktree/internal/classifier"
	"github.com/mcncl/blocktree/internal/config"
	"github.com/mcncl/blocktree/internal/editor"
	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/formatter"
	"github.com/mcncl/blocktree/internal/logger"
	"github.com/mcncl/blocktree/internal/models"
	"github.com/mcncl/blocktree/internal/parser"
	"github.com/mcncl/blocktree/internal/render"
	"github.com/mcncl/blocktree/internal/tui"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Config  string `help:"Path to a config file. Defaults to .blocktree.yml found from the working directory up." short:"c" type:"path"`
	Debug   bool   `help:"Enable debug logging." short:"d"`
	LogFile string `help:"Also write JSON logs to this file." type:"path"`
	NoColor bool   `help:"Disable colored output."`

	View     ViewCmd     `cmd:"" help:"Render the document tree."`
	Classify ClassifyCmd `cmd:"" help:"Print the display strategy chosen for every node."`
	Apply    ApplyCmd    `cmd:"" help:"Apply a YAML or JSON list of edit operations."`
	Edit     EditCmd     `cmd:"" help:"Edit the document interactively."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// Context holds the runtime context shared by all commands
type Context struct {
	Config *config.Config
	Logger logger.ILogger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// InputFlags selects the document to read.
type InputFlags struct {
	Input string `help:"Path to the input JSON or YAML document. If not specified, reads JSON from stdin." short:"i" type:"path"`
}

// OutputFlags selects where an edited document goes.
type OutputFlags struct {
	Output string `help:"Path to write the result to. The extension picks JSON or YAML. If not specified, writes to stdout." short:"o" type:"path"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run parses args, executes the command and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	exitCode := -1
	k, err := kong.New(&cli,
		kong.Name("blocktree"),
		kong.Description("View and edit schema-less JSON content trees"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	kctx, err := k.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		// Usage has already been shown by kong.UsageOnError()
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, err := newContext(&cli, stdin, stdout, stderr)
	if err != nil {
		printError(stderr, err)
		return 1
	}
	defer func() { _ = ctx.Logger.Sync() }()

	if err := kctx.Run(ctx); err != nil {
		ctx.Logger.Error("cli", "command failed", map[string]interface{}{
			"command": kctx.Command(),
			"error":   err,
		})
		printError(stderr, err)
		return 1
	}
	return 0
}

func newContext(cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	path := cli.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(path, cli.Debug, cli.LogFile, cli.NoColor)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}
	if !cfg.Render.Color {
		color.NoColor = true
	}

	log := logger.NewZapLogger(logger.Options{
		Debug:   cfg.Dev.Debug,
		LogFile: cfg.Dev.LogFile,
		Console: stderr,
	})
	log.Debug("cli", "configuration loaded", map[string]interface{}{
		"config_file": path,
		"format":      cfg.Output.Format,
	})

	return &Context{Config: cfg, Logger: log, Stdin: stdin, Stdout: stdout, Stderr: stderr}, nil
}

func printError(w io.Writer, err error) {
	_, _ = color.New(color.FgRed).Fprintln(w, errors.UserFriendlyError(err))
	fmt.Fprintln(w, "\nFor help, run: blocktree --help")
}

func (c *Context) newEditor() *editor.Editor {
	return editor.New(editor.WithPolicy(c.Config.Policy()), editor.WithLogger(c.Logger))
}

// readInput reads the document from path, or JSON from stdin when path is
// empty.
func (c *Context) readInput(path string) (models.JSONValue, error) {
	if path != "" {
		doc, err := parser.ParseFile(path)
		if err == nil {
			c.Logger.Debug("cli", "document loaded", map[string]interface{}{"path": path})
		}
		return doc, err
	}

	if f, ok := c.Stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return models.JSONValue{}, errors.NewInputError("failed to access stdin", err)
		}
		if stat.Mode()&os.ModeCharDevice != 0 {
			return models.JSONValue{}, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}
	data, err := io.ReadAll(c.Stdin)
	if err != nil {
		return models.JSONValue{}, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return models.JSONValue{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return parser.ParseString(string(data))
}

// writeOutput writes doc to path, or to stdout when path is empty.
func (c *Context) writeOutput(doc models.JSONValue, path string) error {
	f := formatter.NewFormatter(c.Config.Output).ForPath(path)
	data, err := f.Encode(doc)
	if err != nil {
		return errors.NewOutputError("failed to encode document", err)
	}

	if path == "" {
		if _, err := c.Stdout.Write(data); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	c.Logger.Info("cli", "document written", map[string]interface{}{"path": path, "format": string(f.Format())})
	return nil
}

// ViewCmd renders the document tree.
type ViewCmd struct {
	InputFlags `embed:""`
}

func (cmd *ViewCmd) Run(ctx *Context) error {
	doc, err := ctx.readInput(cmd.Input)
	if err != nil {
		return err
	}
	root := ctx.newEditor().Render(doc, nil)
	_, err = io.WriteString(ctx.Stdout, render.New(ctx.Config.Render).Render(root))
	return err
}

// ClassifyCmd prints pointer and strategy pairs.
type ClassifyCmd struct {
	InputFlags `embed:""`
	Pointer    string `help:"JSON Pointer of the subtree to classify; empty for the whole document." short:"p"`
}

func (cmd *ClassifyCmd) Run(ctx *Context) error {
	doc, err := ctx.readInput(cmd.Input)
	if err != nil {
		return err
	}
	ptr, err := models.ParsePointer(cmd.Pointer)
	if err != nil {
		return errors.NewInputError("invalid pointer", err)
	}

	tw := tabwriter.NewWriter(ctx.Stdout, 0, 4, 2, ' ', 0)
	err = ctx.newEditor().Classifier().WalkAt(doc, ptr, func(p models.Pointer, key string, s classifier.Strategy) {
		label := p.String()
		if p.IsRoot() {
			label = "(root)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, s)
	})
	if err != nil {
		return errors.NewInputError(fmt.Sprintf("cannot classify %s", cmd.Pointer), err)
	}
	return tw.Flush()
}

// ApplyCmd runs an operations script against the document.
type ApplyCmd struct {
	InputFlags  `embed:""`
	OutputFlags `embed:""`
	Ops         string `help:"Path to the YAML or JSON operations script." required:"" type:"existingfile"`
}

func (cmd *ApplyCmd) Run(ctx *Context) error {
	doc, err := ctx.readInput(cmd.Input)
	if err != nil {
		return err
	}
	script, err := os.Open(cmd.Ops)
	if err != nil {
		return errors.NewInputError(fmt.Sprintf("failed to open '%s'", cmd.Ops), err)
	}
	defer func() { _ = script.Close() }()

	ops, err := editor.LoadScript(script)
	if err != nil {
		return err
	}
	next, err := ctx.newEditor().ApplyAll(doc, ops)
	if err != nil {
		return err
	}
	if err := ctx.writeOutput(next, cmd.Output); err != nil {
		return err
	}
	if cmd.Output != "" {
		_, _ = color.New(color.FgGreen).Fprintf(ctx.Stderr, "Applied %d operations, written to %s\n", len(ops), cmd.Output)
	}
	return nil
}

// EditCmd starts the interactive editor.
type EditCmd struct {
	InputFlags  `embed:""`
	OutputFlags `embed:""`
}

func (cmd *EditCmd) Run(ctx *Context) error {
	if cmd.Input == "" {
		return errors.NewInputError("edit needs a file", errors.ErrNoInput)
	}
	doc, err := ctx.readInput(cmd.Input)
	if err != nil {
		return err
	}
	target := cmd.Output
	if target == "" {
		target = cmd.Input
	}
	save := func(v models.JSONValue) error { return ctx.writeOutput(v, target) }

	model := tui.New(ctx.newEditor(), render.New(ctx.Config.Render), doc, filepath.Base(cmd.Input), save)
	if ctx.Config.Render.CollapseSections {
		model = model.CollapseNested()
	}
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return errors.NewRenderError("interactive editor failed", err)
	}
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "blocktree version %s\n", Version)
	return err
}
