package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/yirassssindaba-coder/asset-inventory/internal/client"
	"github.com/yirassssindaba-coder/asset-inventory/internal/config"
	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
	"github.com/yirassssindaba-coder/asset-inventory/internal/formatter"
	"github.com/yirassssindaba-coder/asset-inventory/internal/inventory"
	"github.com/yirassssindaba-coder/asset-inventory/internal/logger"
	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
	"github.com/yirassssindaba-coder/asset-inventory/internal/parser"
	"github.com/yirassssindaba-coder/asset-inventory/internal/platform"
	"github.com/yirassssindaba-coder/asset-inventory/internal/schema"
	"github.com/yirassssindaba-coder/asset-inventory/internal/server"
	"github.com/yirassssindaba-coder/asset-inventory/internal/store"
)

// Version information
const (
	Version = "1.0.0"
)

// configPathEnv names an explicit config file, bypassing the upward search.
const configPathEnv = config.EnvPrefix + "_CONFIG"

// CLI defines the command-line interface
var CLI struct {
	Agent    AgentCmd    `cmd:"" help:"Collect this machine's asset record and send it to the server."`
	Server   ServerCmd   `cmd:"" help:"Run the collection server."`
	Fmt      FmtCmd      `cmd:"" help:"Parse a JSON document and print it re-serialized."`
	Validate ValidateCmd `cmd:"" help:"Check a JSON document against the asset record schema."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// Context holds the runtime context shared by all commands
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Log    *logger.Logger

	Stdin       io.Reader
	StdinIsTTY  bool
	Stdout      io.Writer
	StdoutIsTTY bool
	Stderr      io.Writer
}

// AgentCmd collects and delivers the local asset record
type AgentCmd struct {
	Host         string `help:"Server host." default:"${agent_host}"`
	Port         int    `help:"Server port." default:"${agent_port}"`
	Path         string `help:"Endpoint path." default:"${agent_path}"`
	Retries      int    `help:"Extra delivery attempts after the first." default:"${agent_retries}"`
	Timeout      int    `help:"Per-attempt timeout in milliseconds." default:"${agent_timeout}"`
	AgentVersion string `help:"Version stamped into the record." default:"${agent_version}"`
}

// Run builds the record, validates it and posts it. Delivery failures are
// reported as warnings; only an invalid record is an error.
func (c *AgentCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	cfg.Agent.Host = c.Host
	cfg.Agent.Port = c.Port
	cfg.Agent.Path = c.Path
	cfg.Agent.Retries = c.Retries
	cfg.Agent.TimeoutMS = c.Timeout
	cfg.Agent.Version = c.AgentVersion
	cfg.Normalize()

	info, err := platform.Collect()
	if err != nil {
		return errors.NewInputError("failed to collect platform facts", err)
	}
	payload := inventory.Build(info, cfg.Agent.Version, time.Now()).ToValue()
	if err := schema.Check(payload); err != nil {
		ctx.Log.Errorf("agent", "payload schema invalid: %v", err)
		return errors.NewSchemaError("payload schema invalid", err)
	}

	cl := client.New(cfg.Agent, ctx.Log)
	cl.Warn = ctx.Stderr
	resp, err := cl.Deliver(ctx.Ctx, formatter.Stringify(payload, true))
	if err != nil {
		fmt.Fprintf(ctx.Stdout, "[DONE] Agent finished with warnings. Check %s\n", cfg.Log.File)
		return nil
	}
	fmt.Fprintf(ctx.Stdout, "[OK] Sent asset data. HTTP %d\n", resp.Status)
	return nil
}

// ServerCmd runs the collection server until interrupted
type ServerCmd struct {
	Port  int    `help:"Listen port." default:"${server_port}"`
	Store string `help:"Path of the JSONL record store." default:"${server_store}" type:"path"`
}

// Run serves until the process receives SIGINT or SIGTERM.
func (c *ServerCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	cfg.Server.Port = c.Port
	cfg.Server.StorePath = c.Store
	cfg.Normalize()

	fmt.Fprintf(ctx.Stderr, "Serving on http://localhost:%d (store: %s)\n", cfg.Server.Port, cfg.Server.StorePath)
	srv := server.New(cfg.Server, store.New(cfg.Server.StorePath), ctx.Log)
	return srv.Run(ctx.Ctx)
}

// FmtCmd re-serializes a JSON document
type FmtCmd struct {
	File    string `arg:"" optional:"" help:"Path to input JSON file. If not specified, reads from stdin." type:"path"`
	Output  string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Compact bool   `help:"Write compact output instead of indented." short:"c"`
	Color   string `help:"Highlight output (auto, always, never)." enum:"auto,always,never" default:"auto"`
}

// Run parses the input and prints it back.
func (c *FmtCmd) Run(ctx *Context) error {
	v, err := readDocument(ctx, c.File)
	if err != nil {
		return err
	}

	f := formatter.NewFormatter(!c.Compact)
	if c.Output == "" && useColor(c.Color, ctx.StdoutIsTTY) {
		f.Color = formatter.DefaultColorizer()
	}
	return writeOutput(ctx, c.Output, f.Format(v)+"\n")
}

// ValidateCmd checks a document against the asset record schema
type ValidateCmd struct {
	File string `arg:"" optional:"" help:"Path to input JSON file. If not specified, reads from stdin." type:"path"`
}

// Run prints OK, or fails with the validator's reason.
func (c *ValidateCmd) Run(ctx *Context) error {
	v, err := readDocument(ctx, c.File)
	if err != nil {
		return err
	}
	if err := schema.Check(v); err != nil {
		var reason string
		if violation, ok := err.(*schema.Violation); ok {
			reason = violation.Reason
		}
		return errors.NewSchemaError(reason, err)
	}
	fmt.Fprintln(ctx.Stdout, "OK")
	return nil
}

// VersionCmd prints the program version
type VersionCmd struct{}

// Run prints the version.
func (c *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.Stdout, "asset-inventory version %s\n", Version)
	return nil
}

func main() {
	cfg, err := config.Load(os.Getenv(configPathEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("asset-inventory"),
		kong.Description("Asset inventory agent, collection server and JSON tools"),
		kong.UsageOnError(),
		configVars(cfg),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx := &Context{
		Ctx:         sigCtx,
		Config:      cfg,
		Log:         logger.New(cfg.Log.File),
		Stdin:       os.Stdin,
		StdinIsTTY:  isTerminal(os.Stdin),
		Stdout:      colorable.NewColorableStdout(),
		StdoutIsTTY: isTerminal(os.Stdout),
		Stderr:      os.Stderr,
	}

	if err := kctx.Run(ctx); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		stop()
		os.Exit(1)
	}
}

// configVars exposes the loaded configuration as flag defaults.
func configVars(cfg *config.Config) kong.Vars {
	return kong.Vars{
		"agent_host":    cfg.Agent.Host,
		"agent_port":    strconv.Itoa(cfg.Agent.Port),
		"agent_path":    cfg.Agent.Path,
		"agent_retries": strconv.Itoa(cfg.Agent.Retries),
		"agent_timeout": strconv.Itoa(cfg.Agent.TimeoutMS),
		"agent_version": cfg.Agent.Version,
		"server_port":   strconv.Itoa(cfg.Server.Port),
		"server_store":  cfg.Server.StorePath,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func useColor(mode string, stdoutIsTTY bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return stdoutIsTTY
	}
}

// readDocument parses the named file, or stdin when no file is given
func readDocument(ctx *Context, file string) (models.Value, error) {
	if file != "" {
		return parser.ParseFile(file)
	}
	if ctx.StdinIsTTY {
		return models.Value{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	return parser.Parse(ctx.Stdin)
}

// writeOutput writes text to file or stdout
func writeOutput(ctx *Context, path, text string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		fmt.Fprintf(ctx.Stderr, "Output written to %s\n", path)
		return nil
	}

	if _, err := io.WriteString(ctx.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
