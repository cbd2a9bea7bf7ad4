package main

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"wifiapplet/gonetworkmanager"
)

// Helper to build a model whose nmcli client is backed by a mock runner
func newTestModel(t *testing.T) (model, *gonetworkmanager.MockRunner, *[][]string) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := gonetworkmanager.NewMockRunner(ctrl)
	nm := gonetworkmanager.New(gonetworkmanager.WithRunner(runner))

	var spawned [][]string
	m := newModel(context.Background(), nm, tuiOptions{
		rescanDelay: time.Millisecond,
		launchers:   [][]string{{"missing-settings"}, {"settings-app", "wifi"}},
		spawn: func(program string, args ...string) error {
			spawned = append(spawned, append([]string{program}, args...))
			if program == "missing-settings" {
				return errors.New("not found")
			}
			return nil
		},
		log: zerolog.Nop(),
	})
	return m, runner, &spawned
}

func completedOK(stdout string) <-chan gonetworkmanager.Completion {
	ch := make(chan gonetworkmanager.Completion, 1)
	ch <- gonetworkmanager.Completion{Stdout: stdout}
	close(ch)
	return ch
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func keyRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

var sampleAPs = []gonetworkmanager.AccessPoint{
	{SSID: "Home", Signal: 87, Secure: true, Active: true},
	{SSID: "Cafe", Signal: 55},
}

// =============================================================================
// Radio state
// =============================================================================

func TestModel_StartsLoading(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.Equal(t, phaseLoading, m.phase)
	assert.Equal(t, msgSearching, m.stateMsg)
	assert.NotNil(t, m.Init())
}

func TestModel_RadioDisabled(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := update(t, m, radioStateMsg{enabled: false})

	assert.Nil(t, cmd)
	assert.False(t, m.wifiEnabled)
	assert.Equal(t, phaseDisabled, m.phase)
	assert.Contains(t, m.View(), msgDisabled)
	assert.Contains(t, m.View(), "Off")
}

func TestModel_RadioQueryFailureAssumesEnabled(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := update(t, m, radioStateMsg{err: errors.New("nmcli missing")})

	assert.NotNil(t, cmd)
	assert.True(t, m.wifiEnabled)
	assert.Equal(t, phaseLoading, m.phase)
}

func TestQueryRadioCmd(t *testing.T) {
	m, runner, _ := newTestModel(t)
	runner.EXPECT().Start(gomock.Any(), "nmcli", []string{"-t", "-f", "WIFI", "general"}).Return(completedOK("enabled\n"), nil)

	msg := queryRadioCmd(m.ctx, m.nm)()

	assert.Equal(t, radioStateMsg{enabled: true}, msg)
}

// =============================================================================
// Scan results
// =============================================================================

func TestModel_ScanPopulatesList(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, scanResultMsg{aps: sampleAPs})

	assert.Equal(t, phaseList, m.phase)
	require.Len(t, m.wifiList.Items(), 2)
	first, ok := m.wifiList.SelectedItem().(networkItem)
	require.True(t, ok)
	assert.Equal(t, "Home", first.SSID)

	view := m.View()
	assert.Contains(t, view, "Home")
	assert.Contains(t, view, "Cafe")
}

func TestModel_ScanEmptyAndError(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, scanResultMsg{aps: []gonetworkmanager.AccessPoint{}})
	assert.Equal(t, phaseEmpty, m.phase)
	assert.Contains(t, m.View(), msgNoNetworks)

	m, _ = update(t, m, scanResultMsg{err: errors.New("boom")})
	assert.Equal(t, phaseError, m.phase)
	assert.Contains(t, m.View(), msgScanFailed)
}

func TestModel_ScanIgnoredWhileDisabled(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, radioStateMsg{enabled: false})

	m, _ = update(t, m, scanResultMsg{aps: sampleAPs})

	assert.Equal(t, phaseDisabled, m.phase)
	assert.Empty(t, m.wifiList.Items())
}

func TestScanCmdUsesRescanFallback(t *testing.T) {
	m, runner, _ := newTestModel(t)
	gomock.InOrder(
		runner.EXPECT().Start(gomock.Any(), "nmcli", gomock.Any()).
			Return(nil, &gonetworkmanager.CommandError{Program: "nmcli", ExitCode: 2, Stderr: "Error: invalid extra argument '--rescan'."}),
		runner.EXPECT().Start(gomock.Any(), "nmcli", []string{"-t", "-f", "IN-USE,SSID,SECURITY,SIGNAL", "device", "wifi", "list"}).
			Return(completedOK("*:Home:WPA2:87\n"), nil),
	)

	msg := scanCmd(m.ctx, m.nm)()

	res, ok := msg.(scanResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)
	assert.Equal(t, sampleAPs[:1], res.aps)
}

// =============================================================================
// Radio toggle
// =============================================================================

func TestModel_ToggleOff(t *testing.T) {
	m, runner, _ := newTestModel(t)
	m, _ = update(t, m, scanResultMsg{aps: sampleAPs})
	runner.EXPECT().Start(gomock.Any(), "nmcli", []string{"radio", "wifi", "off"}).Return(completedOK(""), nil)

	m, cmd := update(t, m, keyRune('t'))

	require.NotNil(t, cmd)
	assert.True(t, m.toggling)
	assert.False(t, m.wifiEnabled)
	assert.Equal(t, msgDisabling, m.stateMsg)

	// A second press while the first toggle is in flight is ignored.
	_, again := update(t, m, keyRune('t'))
	assert.Nil(t, again)

	msg := toggleWifiCmd(m.ctx, m.nm, false)()
	assert.Equal(t, toggleResultMsg{enable: false}, msg)

	m, _ = update(t, m, msg)
	assert.False(t, m.toggling)
	assert.Equal(t, phaseDisabled, m.phase)
}

func TestModel_ToggleFailureReverts(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, radioStateMsg{enabled: false})
	m, _ = update(t, m, keyRune('t'))
	require.True(t, m.wifiEnabled)

	m, cmd := update(t, m, toggleResultMsg{enable: true, err: errors.New("not authorized")})

	assert.Nil(t, cmd)
	assert.False(t, m.wifiEnabled)
	assert.Equal(t, phaseError, m.phase)
	assert.Contains(t, m.View(), msgToggleFailed)
}

func TestModel_ToggleOnSchedulesRescan(t *testing.T) {
	m, runner, _ := newTestModel(t)
	m, _ = update(t, m, radioStateMsg{enabled: false})
	m, _ = update(t, m, keyRune('t'))

	m, cmd := update(t, m, toggleResultMsg{enable: true})
	require.NotNil(t, cmd)
	assert.Equal(t, phaseLoading, m.phase)
	assert.Equal(t, msgSearching, m.stateMsg)

	runner.EXPECT().Start(gomock.Any(), "nmcli", gomock.Any()).Return(completedOK(":Cafe:--:55\n"), nil)
	m, cmd = update(t, m, rescanMsg{})
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, phaseList, m.phase)
	assert.Len(t, m.wifiList.Items(), 1)
}

// =============================================================================
// Row activation and settings
// =============================================================================

func TestModel_SelectActiveNetworkCloses(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, scanResultMsg{aps: sampleAPs})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, isQuit(cmd))
}

func TestModel_SelectOtherNetworkOpensSettings(t *testing.T) {
	m, _, spawned := newTestModel(t)
	m, _ = update(t, m, scanResultMsg{aps: sampleAPs})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, settingsResultMsg{}, msg)
	assert.Equal(t, [][]string{{"missing-settings"}, {"settings-app", "wifi"}}, *spawned)

	_, cmd = update(t, m, msg)
	assert.True(t, isQuit(cmd))
}

func TestModel_SettingsFailureShowsStatus(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := update(t, m, settingsResultMsg{err: errNoSettingsApp})

	assert.Nil(t, cmd)
	assert.Equal(t, msgSettingsAbsent, m.statusMsg)
	assert.Contains(t, m.View(), msgSettingsAbsent)
}

func TestModel_QuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := update(t, m, keyRune('q'))

	assert.True(t, isQuit(cmd))
}

func TestNetworkItemSignalBars(t *testing.T) {
	for signal, lit := range map[int]int{0: 0, 25: 1, 45: 2, 65: 3, 95: 4} {
		n := networkItem{AccessPoint: gonetworkmanager.AccessPoint{Signal: signal}}
		assert.Equal(t, lit, int(n.Level()), "signal %d", signal)
		assert.NotEmpty(t, n.SignalBars())
	}
}
