package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/echocheck/internal/check"
	"github.com/KilimcininKorOglu/echocheck/internal/config"
	"github.com/KilimcininKorOglu/echocheck/internal/logger"
	"github.com/KilimcininKorOglu/echocheck/internal/output"
	"github.com/KilimcininKorOglu/echocheck/internal/tui"
)

// errUnreachable is returned when at least one host failed its check.
// main exits with status 1 without printing it.
var errUnreachable = errors.New("one or more hosts unreachable")

var (
	// Flags
	probeCount int
	verbose    bool
	jsonOutput bool
	csvOutput  bool
	htmlOutput string
	tuiMode    bool
	tuiTheme   string
	noColor    bool
	quiet      bool
	logLevel   string

	// Config file
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "echocheck [flags] <host>...",
	Short: "ICMP echo reachability checker",
	Long: `echocheck - ICMP echo reachability checker

echocheck sends ICMP Echo Requests over a raw IPv4 socket and reports a
host as reachable only if every probe is answered by a matching Echo Reply
within one second. Checking stops at the first unanswered probe.

Raw sockets need root or CAP_NET_RAW.

Examples:
  echocheck 192.168.1.1           Three probes to one host
  echocheck -c 10 gw dns          Ten probes each, using config aliases
  echocheck -v host1 host2        Detailed table output
  echocheck --json example.com    JSON output
  echocheck --tui host1 host2     Interactive TUI mode
  echocheck -q 10.0.0.1 && ...    Exit status only
  echocheck config --init         Create default config file
  echocheck                       Interactive mode (prompts for a host)`,
	PersistentPreRunE: loadConfig,
	RunE:              runCheck,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.config/echocheck/config.yaml)")

	// Check parameters
	rootCmd.Flags().IntVarP(&probeCount, "count", "c", check.DefaultProbeCount, "Echo requests per host (1-255), all must be answered")

	// Output flags
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed table output")
	rootCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.Flags().BoolVar(&csvOutput, "csv", false, "Output in CSV format")
	rootCmd.Flags().StringVar(&htmlOutput, "html", "", "Generate HTML report to file")
	rootCmd.Flags().BoolVarP(&tuiMode, "tui", "t", false, "Interactive TUI mode")
	rootCmd.Flags().StringVar(&tuiTheme, "theme", "dark", "TUI theme: dark, light, minimal")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "No output, exit status only")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads configuration from file and applies defaults.
// If no config file exists, it creates one automatically on first run.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error

	if cfgFile != "" {
		// Custom config file specified
		cfg, err = config.LoadFrom(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		// Try to load from default locations
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Apply config defaults if flags not explicitly set
	applyConfigDefaults(cmd.Flags().Changed)

	return nil
}

// createDefaultConfig writes the default user config if none exists yet and
// tells w about it. Failures are ignored; the directory might not be writable.
func createDefaultConfig(w io.Writer) {
	path := config.GetConfigPath()
	if path == "" {
		return
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return
	}
	if err := config.DefaultConfig().Save(); err == nil {
		fmt.Fprintf(w, "Created default config: %s\n", path)
		fmt.Fprintf(w, "Edit this file to customize defaults (e.g., set count: 5)\n\n")
	}
}

// applyConfigDefaults applies config file values for unset flags.
func applyConfigDefaults(changed func(name string) bool) {
	if cfg == nil {
		return
	}

	defaults := cfg.Defaults

	if !changed("count") && defaults.Count > 0 {
		probeCount = defaults.Count
	}

	// Output mode from config (if no flag set)
	if !changed("tui") && defaults.TUI {
		tuiMode = true
	}
	if !changed("verbose") && defaults.Verbose {
		verbose = true
	}
	if !changed("json") && defaults.JSON {
		jsonOutput = true
	}
	if !changed("csv") && defaults.CSV {
		csvOutput = true
	}
	if !changed("no-color") && defaults.NoColor {
		noColor = true
	}
	if !changed("quiet") && defaults.Quiet {
		quiet = true
	}
	if !changed("log-level") && defaults.LogLevel != "" {
		logLevel = defaults.LogLevel
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("echocheck %s\n", version)
		fmt.Printf("  Commit: %s\n", commit)
		fmt.Printf("  Built:  %s\n", date)
		fmt.Printf("  Config: %s\n", config.GetConfigPath())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage echocheck configuration file.

Commands:
  echocheck config --init     Create default config file
  echocheck config --show     Show example configuration
  echocheck config --path     Show config file path`,
	RunE: runConfig,
}

var (
	configInit bool
	configShow bool
	configPath bool
)

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Create default config file")
	configCmd.Flags().BoolVar(&configShow, "show", false, "Show example configuration")
	configCmd.Flags().BoolVar(&configPath, "path", false, "Show config file path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configPath {
		fmt.Println(config.GetConfigPath())
		return nil
	}

	if configInit {
		path := config.GetConfigPath()

		// Check if file already exists
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		if err := config.DefaultConfig().Save(); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}

		fmt.Printf("Created config file: %s\n", path)
		fmt.Println("\nEdit this file to customize defaults.")
		fmt.Println("Example: Set 'tui: true' under 'defaults:' to always use TUI mode.")
		return nil
	}

	if configShow {
		fmt.Println(config.GenerateExample())
		return nil
	}

	// No flag specified, show help
	return cmd.Help()
}

func runCheck(cmd *cobra.Command, args []string) error {
	targets := args

	if cfgFile == "" {
		var notice io.Writer = os.Stderr
		if quiet {
			notice = io.Discard
		}
		createDefaultConfig(notice)
	}

	// If no target provided, prompt for it interactively
	if len(targets) == 0 {
		if quiet || !output.IsTerminal(os.Stdin) {
			return fmt.Errorf("no host given")
		}
		target, err := promptForTarget(os.Stdin)
		if err != nil {
			return err
		}
		targets = []string{target}
	}

	if cfg != nil {
		targets = cfg.ResolveAliases(targets)
	}

	if noColor {
		color.NoColor = true
	}

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log := logger.New(os.Stderr, level)
	if tuiMode {
		log = logger.Discard()
	}

	checkConfig := check.DefaultConfig()
	checkConfig.ProbeCount = probeCount
	checkConfig.Logger = log
	if err := checkConfig.Validate(); err != nil {
		return fmt.Errorf("invalid --count %d: %w", probeCount, err)
	}

	outputConfig := output.Config{
		Colors: !noColor,
	}

	var results []*check.Result
	if tuiMode {
		results, err = tui.Run(targets, checkConfig, tui.ThemeByName(tuiTheme))
		if err != nil {
			return err
		}
		if results == nil {
			return errUnreachable
		}
	} else {
		results, err = runChecks(cmd.Context(), targets, checkConfig, outputConfig, log)
		if err != nil {
			return err
		}
	}

	// Generate HTML report if requested
	if htmlOutput != "" {
		htmlFormatter := output.NewHTMLFormatter(outputConfig)
		if err := output.WriteToFile(results, htmlOutput, htmlFormatter); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		if !quiet {
			fmt.Fprintf(os.Stderr, "\nHTML report saved to: %s\n", htmlOutput)
		}
	}

	if !check.AllReachable(results) {
		return errUnreachable
	}
	return nil
}

// runChecks checks every target and writes results in the selected format.
// Text output is streamed as each host finishes.
func runChecks(ctx context.Context, targets []string, checkConfig *check.Config, outputConfig output.Config, log *slog.Logger) ([]*check.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	format := selectFormat()

	if !quiet && format == output.FormatText {
		textFormatter := output.NewWriter(output.FormatText, outputConfig).Formatter().(*output.TextFormatter)
		checkConfig.OnResult = func(r *check.Result) {
			fmt.Print(textFormatter.FormatResult(r))
			os.Stdout.Sync() // Flush immediately
		}
	}

	checker, err := check.New(checkConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create checker: %w", err)
	}

	log.Debug("starting checks", "hosts", len(targets), "probes", checkConfig.ProbeCount)
	results := checker.CheckAll(ctx, targets)

	switch {
	case quiet:
	case format == output.FormatText:
		if len(results) > 1 {
			s := check.Summarize(results)
			fmt.Printf("\n%d of %d hosts reachable\n", s.Reachable, s.Total)
		}
	default:
		if err := output.NewWriter(format, outputConfig).Write(results); err != nil {
			return results, err
		}
	}

	return results, nil
}

// selectFormat picks the stdout format from the output flags.
func selectFormat() output.Format {
	switch {
	case jsonOutput:
		return output.FormatJSON
	case csvOutput:
		return output.FormatCSV
	case verbose:
		return output.FormatVerbose
	default:
		return output.FormatText
	}
}

// promptForTarget displays an interactive prompt for the user to enter a host.
func promptForTarget(in io.Reader) (string, error) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	fmt.Println()
	cyan.Println("╔═══════════════════════════════════════════════════════════╗")
	cyan.Println("║            echocheck - ICMP Reachability Check            ║")
	cyan.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Println("  Examples:")
	yellow.Println("    • 192.168.1.1     - Check the local gateway")
	yellow.Println("    • 8.8.8.8         - Check Google DNS")
	yellow.Println("    • example.com     - Check a hostname")
	fmt.Println()

	// Show aliases if any
	if cfg != nil && len(cfg.Aliases) > 0 {
		fmt.Println("  Aliases:")
		for alias, target := range cfg.Aliases {
			yellow.Printf("    • %s → %s\n", alias, target)
		}
		fmt.Println()
	}

	reader := bufio.NewReader(in)

	for {
		green.Print("  Enter host (IP or hostname): ")
		os.Stdout.Sync()

		input, err := reader.ReadString('\n')
		target := strings.TrimSpace(input)
		if err != nil && target == "" {
			// EOF (Ctrl+D or piped input ended)
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("no input provided")
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		if target == "" {
			color.Red("  ✗ Host cannot be empty. Please try again.")
			fmt.Println()
			continue
		}

		// Check for quit commands
		if target == "q" || target == "quit" || target == "exit" {
			return "", fmt.Errorf("cancelled")
		}

		fmt.Println()
		return target, nil
	}
}

// Execute runs the root command. An interrupt cancels the remaining checks.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets version information for the CLI.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}
