package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wifiapplet/gonetworkmanager"
)

var scanJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print whether the Wi-Fi radio is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.closeLog()
		return printRadioState(cmd, a.nm)
	},
}

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Switch the Wi-Fi radio on",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, _ []string) error { return setRadio(cmd, true) },
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Switch the Wi-Fi radio off",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, _ []string) error { return setRadio(cmd, false) },
}

var scanCmdCLI = &cobra.Command{
	Use:   "scan",
	Short: "List nearby Wi-Fi networks, connected network first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.closeLog()

		aps, err := a.nm.ScanAccessPoints(cmd.Context())
		if err != nil {
			return fmt.Errorf("could not scan Wi-Fi networks: %w", err)
		}
		if scanJSON {
			return writeJSON(cmd.OutOrStdout(), aps)
		}
		writeAccessPoints(cmd.OutOrStdout(), aps)
		return nil
	},
}

var openSettingsCmdCLI = &cobra.Command{
	Use:   "open-settings",
	Short: "Open the full network settings application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.closeLog()
		return openSettings(a.cfg.Settings.LauncherCommands(), spawnDetached)
	},
}

func init() {
	scanCmdCLI.Flags().BoolVar(&scanJSON, "json", false, "print networks as JSON")
	rootCmd.AddCommand(statusCmd, onCmd, offCmd, scanCmdCLI, openSettingsCmdCLI)
}

func printRadioState(cmd *cobra.Command, nm *gonetworkmanager.Client) error {
	enabled, err := nm.WifiEnabled(cmd.Context())
	if err != nil {
		return fmt.Errorf("could not read Wi-Fi state: %w", err)
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintln(cmd.OutOrStdout(), state)
	return nil
}

func setRadio(cmd *cobra.Command, enable bool) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.closeLog()

	if err := a.nm.SetWifiEnabled(cmd.Context(), enable); err != nil {
		return fmt.Errorf("could not change Wi-Fi state: %w", err)
	}
	a.log.Debug().Bool("enabled", enable).Msg("radio switched")
	return nil
}

func writeAccessPoints(w io.Writer, aps []gonetworkmanager.AccessPoint) {
	if len(aps) == 0 {
		fmt.Fprintln(w, "No Wi-Fi networks found")
		return
	}
	for _, ap := range aps {
		inUse := " "
		if ap.Active {
			inUse = "*"
		}
		security := "open"
		if ap.Secure {
			security = "secured"
		}
		fmt.Fprintf(w, "%s %-32s %3d%%  %-9s  %s\n", inUse, ap.SSID, ap.Signal, ap.Level(), security)
	}
}

func writeJSON(w io.Writer, aps []gonetworkmanager.AccessPoint) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(aps)
}
