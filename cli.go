package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lexandro/codecontext/config"
	"github.com/lexandro/codecontext/console"
	"github.com/lexandro/codecontext/snapshot"
)

// streams are the process streams, injectable for tests.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	// interactive is true when in is a terminal, enabling the directory prompt.
	interactive bool
}

type cliOptions struct {
	output      string
	configPath  string
	excludes    []string
	maxFileSize int64
	gitignore   bool
	noPrompt    bool
	logLevel    string
	logFile     string
}

func newRootCommand(s streams) *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "codecontext [directory]",
		Short: "Concatenate a project's source files into one text snapshot",
		Long: `codecontext walks a project directory, keeps files with a known source or
text extension, skips dependency and build directories, and writes every
file's content into a single snapshot with a timestamp and git metadata.

With no directory argument on a terminal it asks for one; a blank answer
means the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, printer, err := setupProject(cmd, s, opts, args)
			if err != nil {
				return err
			}
			_, err = p.writeSnapshot(cmd.Context(), printer)
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.output, "output", "o", snapshot.DefaultOutputFile, "Snapshot file to write")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: "+config.DefaultFileName+" in the working directory)")
	flags.StringArrayVar(&opts.excludes, "exclude", nil, "Extra glob pattern to leave out, matched against relative paths (repeatable)")
	flags.Int64Var(&opts.maxFileSize, "max-file-size", config.DefaultMaxFileSizeBytes, "Maximum file size in bytes")
	flags.BoolVar(&opts.gitignore, "gitignore", false, "Also honor .gitignore and .contextignore files")
	flags.BoolVar(&opts.noPrompt, "no-prompt", false, "Never ask for a directory; default to the current one")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	flags.StringVar(&opts.logFile, "log-file", "", "Log file path (default: stderr)")

	root.AddCommand(newWatchCommand(s, opts), newServeCommand(s, opts))
	return root
}

func newWatchCommand(s streams, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [directory]",
		Short: "Write the snapshot, then rewrite it whenever a scanned file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, printer, err := setupProject(cmd, s, opts, args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return p.watch(ctx, printer)
		},
	}
}

func newServeCommand(s streams, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [directory]",
		Short: "Serve the snapshot, file list and content search over MCP on stdio",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the MCP protocol; never prompt or print progress.
			opts.noPrompt = true
			p, _, err := setupProject(cmd, s, opts, args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, p)
		},
	}
}

// setupProject resolves logging, configuration and the target directory
// shared by every command.
func setupProject(cmd *cobra.Command, s streams, opts *cliOptions, args []string) (*project, *console.Printer, error) {
	logger := setupLogger(opts.logLevel, opts.logFile, s.errOut)

	cfg, err := loadScanConfig(cmd, opts)
	if err != nil {
		return nil, nil, err
	}

	dir, err := resolveDirectory(s, opts, args)
	if err != nil {
		return nil, nil, err
	}

	p, err := newProject(dir, opts.output, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	printer := console.NewPrinter(s.out, colorEnabled(s.out))
	logger.Debug("project configured",
		"root", p.root,
		"output", p.outputPath,
		"extensions", cfg.Extensions(),
		"maxFileSize", cfg.MaxFileSizeBytes(),
		"gitignore", cfg.RespectGitignore(),
	)
	return p, printer, nil
}

// loadScanConfig reads the YAML config and applies flags the user set
// explicitly on top of it.
func loadScanConfig(cmd *cobra.Command, opts *cliOptions) (*config.ScanConfig, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultFileName
	}
	options, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-file-size") {
		options.MaxFileSizeBytes = opts.maxFileSize
	}
	if flags.Changed("gitignore") {
		options.RespectGitignore = opts.gitignore
	}
	options.ExcludePatterns = append(options.ExcludePatterns, opts.excludes...)

	cfg, err := config.New(options)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolveDirectory returns the positional argument, the answer to the
// interactive prompt, or the current directory.
func resolveDirectory(s streams, opts *cliOptions, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if opts.noPrompt || !s.interactive {
		return ".", nil
	}
	return console.AskDirectory(s.in, s.out)
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && !color.NoColor && isTerminal(f)
}
