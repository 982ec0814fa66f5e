// Package cli implements the atlas command-line client. Every command talks
// to a running API server through pkg/client except migrate, which opens the
// database directly.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/CoalTransition-Atlas/internal/config"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/client"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// tokenEnv names the environment variable read when --token is not given.
const tokenEnv = "ATLAS_TOKEN"

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
	Token        string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Client       *client.Client
	OutputFormat string
	Timeout      time.Duration
}

// NewRootCommand creates the root command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "atlas",
		Short:   "CoalTransition-Atlas CLI",
		Long:    "Explore the coal plant catalogue, edit transition projects and manage the\ndeal pipeline of a CoalTransition-Atlas server.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./atlas.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "table", "output format (table, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-command timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "API server address (default: http://localhost:<server.port>)")
	pf.StringVar(&opts.Token, "token", "", "bearer token (default: $"+tokenEnv+")")

	cmd.AddCommand(
		newPlantsCmd(),
		newSearchCmd(),
		newStatsCmd(),
		newProjectsCmd(),
		newDealsCmd(),
		newImpactCmd(),
		newLayoutCmd(),
		newLoginCmd(),
		newMigrateCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "table", "json":
	default:
		return errors.NewValidationError("output", "output must be table or json")
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	apiClient, err := initClient(cfg, opts, logger)
	if err != nil {
		return fmt.Errorf("client initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Client:       apiClient,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Timeout:      opts.Timeout,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads the first config file found, or defaults when none exists.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./atlas.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".atlas", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/atlas/config.yaml")

	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}
	return config.NewDefaultConfig(), nil
}

// initLogger creates a console logger on stderr so stdout stays parseable.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := opts.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

type clientLogger struct{ l logging.Logger }

func (c clientLogger) Debugf(format string, args ...interface{}) { c.l.Debug(fmt.Sprintf(format, args...)) }
func (c clientLogger) Infof(format string, args ...interface{})  { c.l.Info(fmt.Sprintf(format, args...)) }
func (c clientLogger) Errorf(format string, args ...interface{}) { c.l.Warn(fmt.Sprintf(format, args...)) }

func initClient(cfg *config.Config, opts *RootOptions, logger logging.Logger) (*client.Client, error) {
	addr := opts.ServerAddr
	if addr == "" {
		addr = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	token := opts.Token
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	return client.NewClient(addr,
		client.WithToken(token),
		client.WithLogger(clientLogger{l: logger}),
		client.WithUserAgent("atlas-cli/"+Version),
	)
}

// GetCLIContext extracts CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext returns the CLIContext and a context bounded by --timeout.
func commandContext(cmd *cobra.Command) (*CLIContext, context.Context, context.CancelFunc, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	return cliCtx, ctx, cancel, nil
}

// Execute is the entry point used by cmd/atlas.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

// tableProvider is implemented by the view types rendered as tables.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult writes data as JSON or, when it is a tableProvider, as a table.
func PrintResult(cmd *cobra.Command, data interface{}, raw interface{}) error {
	format := "table"
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}
	if format == "json" {
		return printJSON(cmd.OutOrStdout(), raw)
	}
	if tp, ok := data.(tableProvider); ok {
		renderTable(cmd.OutOrStdout(), tp.TableHeaders(), tp.TableRows())
		return nil
	}
	return printJSON(cmd.OutOrStdout(), raw)
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetBorder(false)
	table.AppendBulk(rows)
	table.Render()
}

// PrintError writes err to stderr, with the server code when there is one.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%s)\n", color.RedString("Error:"), apiErr.Message, apiErr.Code)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintSuccess writes a confirmation line to stdout unless JSON output is on.
func PrintSuccess(cmd *cobra.Command, msg string) {
	if cliCtx, err := GetCLIContext(cmd); err == nil && cliCtx.OutputFormat == "json" {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("OK:"), msg)
}

//Personal.AI order the ending
