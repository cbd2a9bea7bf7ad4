package main

import (
	"errors"
	"os/exec"
)

var errNoSettingsApp = errors.New("could not open Wi-Fi settings (no compatible control center found)")

type spawnFunc func(program string, args ...string) error

// openSettings starts the first launcher that can be spawned. It does not
// wait for the settings application or report anything about it afterwards.
func openSettings(launchers [][]string, spawn spawnFunc) error {
	for _, l := range launchers {
		if len(l) == 0 {
			continue
		}
		if err := spawn(l[0], l[1:]...); err == nil {
			return nil
		}
	}
	return errNoSettingsApp
}

func spawnDetached(program string, args ...string) error {
	cmd := exec.Command(program, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
