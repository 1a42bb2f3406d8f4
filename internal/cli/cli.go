// Package cli provides the command-line interface with injectable io.Writer
// for testing.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/mcdonaldj/icograb/internal/adapters/exec7z"
	"github.com/mcdonaldj/icograb/internal/config"
	"github.com/mcdonaldj/icograb/internal/extract"
	"github.com/mcdonaldj/icograb/internal/scan"
)

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	ConfigPath() string
}

// Scanner discovers candidate executables for the CLI.
type Scanner interface {
	Find(inputs []string, opts scan.Options) scan.Result
}

// Extractor runs icon extraction for the CLI.
type Extractor interface {
	Run(exes []string, opts extract.Options) (extract.RunResult, error)
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// ShowProgress enables the progress bar (disabled for testing).
	ShowProgress bool

	// Injectable dependencies (nil means use defaults)
	ConfigSvc ConfigService
	ScanSvc   Scanner
	// NewExtractor builds the extractor once the 7-Zip path is known. warn
	// receives non-fatal listing-parse warnings for display.
	NewExtractor func(zipPath string, warn func(msg string)) Extractor
	// Locate finds the 7-Zip binary when no path was supplied.
	Locate func() (string, error)

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:          os.Stdout,
		Err:          os.Stderr,
		Version:      version,
		Args:         os.Args,
		Exit:         os.Exit,
		ShowProgress: true,
		green:        color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:       color.New(color.FgYellow).SprintFunc(),
		cyan:         color.New(color.FgCyan).SprintFunc(),
		gray:         color.New(color.FgHiBlack).SprintFunc(),
		red:          color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		Args:    args,
		Exit:    func(code int) {},
		green:   noColor,
		yellow:  noColor,
		cyan:    noColor,
		gray:    noColor,
		red:     noColor,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load() (*config.Config, error) { return config.Load() }
func (d *defaultConfigService) Save(cfg *config.Config) error { return cfg.Save() }
func (d *defaultConfigService) ConfigPath() string            { return config.ConfigPath() }

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) scanSvc() Scanner {
	if c.ScanSvc != nil {
		return c.ScanSvc
	}
	return scan.NewDefaultService()
}

func (c *CLI) extractor(zipPath string) Extractor {
	warn := func(msg string) {
		fmt.Fprintf(c.Out, "  %s %s\n", c.yellow("!"), msg)
	}
	if c.NewExtractor != nil {
		return c.NewExtractor(zipPath, warn)
	}
	return extract.NewDefaultService(zipPath, warn)
}

func (c *CLI) locate() (string, error) {
	if c.Locate != nil {
		return c.Locate()
	}
	return exec7z.Locate()
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run(ctx context.Context) {
	cfg, err := c.configSvc().Load()
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return
	}

	cmd := &cli.Command{
		Name:      "icograb",
		Usage:     "extract icon resources from Windows executables",
		ArgsUsage: "PATH [PATH...]",
		Version:   c.Version,
		Writer:    c.Out,
		ErrWriter: c.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "sevenzip",
				Aliases: []string{"z"},
				Usage:   "path to the 7-Zip binary (auto-located when omitted)",
				Value:   cfg.SevenZip,
				Sources: cli.EnvVars("ICOGRAB_7Z"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "directory extracted icons are written to",
				Value:   cfg.OutputDir,
				Sources: cli.EnvVars("ICOGRAB_OUTPUT"),
			},
			&cli.BoolFlag{
				Name:    "recursive",
				Aliases: []string{"r"},
				Usage:   "scan directories recursively",
				Value:   cfg.Recursive,
			},
			&cli.BoolFlag{
				Name:    "largest",
				Aliases: []string{"l"},
				Usage:   "extract only the largest icon from each executable",
				Value:   cfg.LargestOnly,
			},
			&cli.BoolFlag{
				Name:  "no-shortcuts",
				Usage: "do not resolve .lnk shortcuts",
				Value: !cfg.ResolveShortcuts,
			},
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "maintain manifest.yaml in the output directory",
				Value: cfg.WriteManifest,
			},
		},
		Commands: []*cli.Command{c.initCommand()},
		Action:   c.runExtraction,
	}

	if err := cmd.Run(ctx, c.Args); err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
	}
}

// initCommand creates the default config file.
func (c *CLI) initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "create the default config file",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc := c.configSvc()
			if err := svc.Save(config.DefaultConfig()); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(c.Out, "Created config at %s\n", svc.ConfigPath())
			return nil
		},
	}
}

// runExtraction is the root action: collect executables, then extract.
func (c *CLI) runExtraction(ctx context.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		return fmt.Errorf("at least one path is required")
	}

	zipPath := cmd.String("sevenzip")
	if zipPath == "" {
		var err error
		if zipPath, err = c.locate(); err != nil {
			return fmt.Errorf("could not locate 7-Zip: %w (supply it with --sevenzip)", err)
		}
	}

	outputDir, err := filepath.Abs(config.ExpandPath(cmd.String("output")))
	if err != nil {
		return fmt.Errorf("resolving output dir: %w", err)
	}

	abs := make([]string, 0, len(inputs))
	fmt.Fprintf(c.Out, "%s Input paths:\n", c.cyan("=>"))
	for i, input := range inputs {
		path, err := filepath.Abs(config.ExpandPath(input))
		if err != nil {
			return fmt.Errorf("resolving input path %s: %w", input, err)
		}
		abs = append(abs, path)
		fmt.Fprintf(c.Out, "  %d. %s\n", i+1, path)
	}

	res := c.scanSvc().Find(abs, scan.Options{
		Extensions:       []string{".exe"},
		Recursive:        cmd.Bool("recursive"),
		ResolveShortcuts: !cmd.Bool("no-shortcuts"),
	})
	for _, path := range res.Missing {
		fmt.Fprintf(c.Out, "  %s no file exists at %s, skipping\n", c.yellow("!"), path)
	}
	for _, path := range res.Unresolved {
		fmt.Fprintf(c.Out, "  %s could not resolve shortcut %s, skipping\n", c.yellow("!"), path)
	}

	fmt.Fprintf(c.Out, "%s Found executables:\n", c.cyan("=>"))
	for i, path := range res.Matches {
		fmt.Fprintf(c.Out, "  %d. %s\n", i+1, path)
	}
	if len(res.Matches) == 0 {
		fmt.Fprintf(c.Out, "  %s\n", c.gray("none"))
		fmt.Fprintln(c.Out, "\nDone: no executables to process")
		return nil
	}

	var bar *progressbar.ProgressBar
	if c.ShowProgress && len(res.Matches) > 1 {
		bar = progressbar.NewOptions(len(res.Matches),
			progressbar.OptionSetWriter(c.Err),
			progressbar.OptionSetDescription("extracting"),
			progressbar.OptionClearOnFinish(),
		)
	}

	fmt.Fprintf(c.Out, "%s Extracting icons...\n", c.cyan("=>"))
	run, err := c.extractor(zipPath).Run(res.Matches, extract.Options{
		OutputDir:   outputDir,
		LargestOnly: cmd.Bool("largest"),
		Manifest:    cmd.Bool("manifest"),
		OnFile: func(fr extract.FileResult) {
			c.printFileResult(fr)
			if bar != nil {
				_ = bar.Add(1)
			}
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "\nDone: extracted %s icons from %s executables\n",
		c.green(fmt.Sprintf("%d", run.Icons)),
		c.cyan(fmt.Sprintf("%d", run.Executables)))
	return nil
}

// printFileResult prints the per-executable progress lines.
func (c *CLI) printFileResult(fr extract.FileResult) {
	name := filepath.Base(fr.Exe)
	switch {
	case fr.ListErr != nil:
		fmt.Fprintf(c.Out, "  %s %s: %v\n", c.red("x"), name, fr.ListErr)
	case fr.NoIcons:
		fmt.Fprintf(c.Out, "  %s %s %s\n", c.gray("-"), c.gray(name), c.gray("(no icons found)"))
	default:
		for _, ic := range fr.Icons {
			if ic.Err != nil {
				fmt.Fprintf(c.Out, "  %s %s: %v\n", c.red("x"), name, ic.Err)
				continue
			}
			fmt.Fprintf(c.Out, "  %s %s %s -> %s\n",
				c.green("*"),
				name,
				c.yellow(extract.FormatSize(ic.Entry.Size)),
				filepath.Base(ic.Path))
		}
	}
}
