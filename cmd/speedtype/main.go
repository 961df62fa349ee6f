// Package main provides the CLI entrypoint for speedtype.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/speedtype/internal/config"
	"github.com/verte-zerg/speedtype/internal/generator"
	"github.com/verte-zerg/speedtype/internal/identity"
	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/session"
	"github.com/verte-zerg/speedtype/internal/stats"
	"github.com/verte-zerg/speedtype/internal/store"
	"github.com/verte-zerg/speedtype/internal/tui"
	"github.com/verte-zerg/speedtype/internal/wordlist"
)

const (
	defaultDuration    = int(model.Duration30)
	defaultTimeframe   = string(model.TimeframeAll)
	defaultCurveWindow = 10
	defaultWeakTop     = 5
	defaultCurveWidth  = 60
	defaultAddr        = ":8080"
)

var (
	dbPath string

	testDuration int
	testUser     string
	testWordList string

	boardTimeframe string
	boardDuration  string
	boardLimit     int

	statsUser        string
	statsDuration    string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsWeakTop     int

	serveAddr string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "speedtype",
		Short:         "Timed typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the results database")
	rootCmd.Flags().IntVar(&testDuration, "duration", defaultDuration, "test duration in seconds (15, 30, 60, 120)")
	rootCmd.Flags().StringVar(&testUser, "user", "", "user to save results for (anonymous results are not saved)")
	rootCmd.Flags().StringVar(&testWordList, "wordlist", "", "word list file, one word per line (default: built-in)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func loadConfig() (config.FileConfig, error) {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "duration", &testDuration, fileCfg.Test.Duration)
	applyStringConfig(cmd, "user", &testUser, fileCfg.Test.User)
	applyStringConfig(cmd, "wordlist", &testWordList, fileCfg.Test.WordList)
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Storage.DBPath)

	cfg, err := buildTestConfig(testDuration, testUser, testWordList)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("speedtype needs an interactive terminal")
	}

	words, err := wordlist.Load(cfg.WordListPath)
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	gen, err := generator.New(words)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	engine := session.NewEngine(gen)
	m, err := tui.NewModel(engine, st, identity.Static(cfg.UserID), cfg.Duration)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildTestConfig(duration int, user, wordListPath string) (model.Config, error) {
	d := model.Duration(duration)
	if !d.Valid() {
		return model.Config{}, fmt.Errorf("--duration must be one of 15, 30, 60, 120")
	}
	cfg := model.Config{Duration: d, WordListPath: strings.TrimSpace(wordListPath)}
	if strings.TrimSpace(user) != "" {
		id, ok := identity.Normalize(user)
		if !ok {
			return model.Config{}, fmt.Errorf("--user %q is not a valid user name", user)
		}
		cfg.UserID = id
	}
	return cfg, nil
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top results",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().StringVar(&boardTimeframe, "timeframe", defaultTimeframe, "today, week, month or all")
	cmd.Flags().StringVar(&boardDuration, "duration", "all", "duration filter (15, 30, 60, 120 or all)")
	cmd.Flags().IntVar(&boardLimit, "limit", model.DefaultLeaderSize, "number of entries")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "timeframe", &boardTimeframe, fileCfg.Leaderboard.Timeframe)
	applyIntConfig(cmd, "limit", &boardLimit, fileCfg.Leaderboard.Limit)
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Storage.DBPath)

	tf, err := model.ParseTimeframe(boardTimeframe)
	if err != nil {
		return err
	}
	d, err := model.ParseDurationFilter(boardDuration)
	if err != nil {
		return err
	}
	if boardLimit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	entries, err := st.Leaderboard(cmd.Context(), model.LeaderboardFilter{Timeframe: tf, Duration: d, Limit: boardLimit})
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	if len(entries) == 0 {
		logErrln("No results yet.")
		return nil
	}
	return stats.RenderLeaderboard(cmd.OutOrStdout(), entries)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsUser, "user", "", "user filter")
	cmd.Flags().StringVar(&statsDuration, "duration", "all", "duration filter (15, 30, 60, 120 or all)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakTop, "weak-top", defaultWeakTop, "number of weak characters to list")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "user", &statsUser, fileCfg.Test.User)
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Storage.DBPath)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	d, err := model.ParseDurationFilter(statsDuration)
	if err != nil {
		return err
	}
	if statsLast < 0 || statsCurveWindow <= 0 || statsWeakTop < 0 {
		return fmt.Errorf("--last and --weak-top must be >= 0, --curve-window > 0")
	}

	cfg := model.StatsConfig{
		UserID:      strings.TrimSpace(statsUser),
		Duration:    d,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := stats.BuildReport(cmd.Context(), st, cfg, statsWeakTop)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if len(report.Results) == 0 {
		logErrln("No results yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Results); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurve(out, report.Results, cfg.CurveWindow, curveWidth()); err != nil {
		return err
	}
	if len(report.CharAggs) > 0 {
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderCharTable(out, report.CharAggs); err != nil {
			return err
		}
	}
	if len(report.WeakChars) > 0 {
		if _, err := fmt.Fprintf(out, "\nWeak characters: %s\n", strings.Join(report.WeakChars, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func curveWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 20 {
		return defaultCurveWidth
	}
	return width - 20
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# speedtype configuration
# Uncomment a value to enable it. SPEEDTYPE_* environment variables override
# config values and CLI flags override both.

[test]
# duration = %d           # Test duration in seconds (15, 30, 60, 120)
# user = "ada"            # Results are only saved for a named user
# wordlist = ""           # Word list file, one word per line

[leaderboard]
# timeframe = %q       # today, week, month or all
# limit = %d              # Number of entries

[server]
# addr = %q          # Listen address for speedtype serve

[storage]
# db = %q
`,
		defaultDuration,
		defaultTimeframe,
		model.DefaultLeaderSize,
		defaultAddr,
		config.DefaultDBPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
