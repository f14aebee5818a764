package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/japaniel/akshara/pkg/analysis"
	"github.com/japaniel/akshara/pkg/render"
	"github.com/japaniel/akshara/pkg/segment"
)

// Flags holds the command-line values that are not routed through viper.
type Flags struct {
	CfgFile string
	Color   string

	// analyze
	File            string
	URL             string
	Format          string
	Output          string
	IsolateFailures bool

	// watch
	WatchOutput string
}

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	v      *viper.Viper
	flags  *Flags
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      newViper(),
		flags:  &Flags{},
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "aksharas",
		Short: "Akshara and varna analysis",
		Long: `aksharas splits text into words and reports, for each word, its aksharas
(written syllables) and varnas (phonemic segments).

Examples:
  aksharas analyze தமிழ் மொழி          # Analyze text given as arguments
  aksharas analyze --url https://...   # Analyze the article on a page
  aksharas watch notes.txt -o out.html # Re-render on every save
  aksharas serve                       # Live preview in the browser`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(); err != nil {
				return err
			}
			a.logger = newLogger(a.stderr, a.v.GetString("log.level"))
			return nil
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.CfgFile, "config", "", "config file (default is $HOME/.aksharas.yaml)")
	pf.String("script", "tamil", "segmenter to use ("+strings.Join(segment.Names(), "|")+")")
	pf.String("log-level", "info", "log level (debug|info|warn|error)")
	pf.StringVar(&a.flags.Color, "color", "auto", "colorize text output (auto|on|off)")
	a.v.BindPFlag("script", pf.Lookup("script"))
	a.v.BindPFlag("log.level", pf.Lookup("log-level"))

	rootCmd.AddCommand(
		a.newAnalyzeCommand(),
		a.newWatchCommand(),
		a.newServeCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("script", "tamil")
	v.SetDefault("log.level", "info")
	v.SetDefault("debounce", "300ms")
	v.SetDefault("workers", 1)
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("placeholder", render.NotAvailable)
	return v
}

// initConfig loads the config file and environment. A missing default
// config file is not an error; a missing explicit one is.
func (a *app) initConfig() error {
	if a.flags.CfgFile != "" {
		a.v.SetConfigFile(a.flags.CfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".aksharas")
	}

	a.v.SetEnvPrefix("AKSHARAS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.flags.CfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newAggregator builds the aggregator for the configured script.
func (a *app) newAggregator() (*analysis.Aggregator, error) {
	seg, err := segment.ByName(a.v.GetString("script"))
	if err != nil {
		return nil, err
	}
	ag := analysis.NewAggregator(seg)
	ag.Workers = a.v.GetInt("workers")
	ag.IsolateFailures = a.flags.IsolateFailures
	ag.Logger = a.logger
	return ag, nil
}

// useColor decides whether text output to w is colorized.
func (a *app) useColor(w io.Writer) (bool, error) {
	switch a.flags.Color {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())) && !color.NoColor, nil
	default:
		return false, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", a.flags.Color)
	}
}
