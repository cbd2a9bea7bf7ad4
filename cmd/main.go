// Package main implements a small NetworkManager Wi-Fi applet. Run without
// arguments it opens a terminal popover with a radio switch and the list of
// nearby networks; the subcommands expose the same queries for scripts.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wifiapplet/gonetworkmanager"
	"wifiapplet/internal/config"
	"wifiapplet/internal/logger"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:          "wifiapplet",
	Short:        "Toggle Wi-Fi and list nearby networks through NetworkManager",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
}

// app is what every command needs: configuration, a logger and the nmcli client.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	closeLog func() error
	nm       *gonetworkmanager.Client
}

// newApp loads configuration and builds the logger. The TUI owns the terminal,
// so it logs to the configured file; one-shot commands log to stderr.
func newApp(cmd *cobra.Command, logToFile bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	lc := logger.Config{Level: level, Console: cmd.ErrOrStderr()}
	if logToFile {
		lc.File = cfg.Log.File
	}
	log, closeLog, err := logger.New(lc)
	if err != nil {
		return nil, err
	}

	nm := gonetworkmanager.New(
		gonetworkmanager.WithBinary(cfg.NetworkManager.Binary),
		gonetworkmanager.WithLogger(logger.WithComponent(log, "nmcli")),
	)
	return &app{cfg: cfg, log: log, closeLog: closeLog, nm: nm}, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.closeLog()

	m := newModel(cmd.Context(), a.nm, tuiOptions{
		rescanDelay: a.cfg.UI.RescanDelay,
		launchers:   a.cfg.Settings.LauncherCommands(),
		spawn:       spawnDetached,
		log:         logger.WithComponent(a.log, "tui"),
	})

	a.log.Info().Str("binary", a.cfg.NetworkManager.Binary).Msg("starting popover")
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
