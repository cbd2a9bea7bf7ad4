package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"wifiapplet/gonetworkmanager"
)

// =============================================================================
// Constants
// =============================================================================

const (
	appName        = "Wi-Fi"
	popoverWidth   = 46
	minListHeight  = 4
	chromeHeight   = 8
	signalBarGlyph = "▂▄▆█"

	msgSearching      = "Searching for Wi-Fi networks…"
	msgEnabling       = "Enabling Wi-Fi…"
	msgDisabling      = "Disabling Wi-Fi…"
	msgDisabled       = "Wi-Fi is disabled"
	msgNoNetworks     = "No Wi-Fi networks found"
	msgScanFailed     = "Could not scan Wi-Fi networks"
	msgToggleFailed   = "Could not change Wi-Fi state"
	msgSettingsAbsent = "Could not open Wi-Fi settings"
)

// =============================================================================
// Styles
// =============================================================================

var (
	appStyle = lipgloss.NewStyle().Margin(1, 1)

	colorPrimary = lipgloss.Color("5")
	colorAccent  = lipgloss.Color("6")
	colorSuccess = lipgloss.Color("2")
	colorError   = lipgloss.Color("1")
	colorWarning = lipgloss.Color("3")
	colorFaint   = lipgloss.Color("8")
	colorText    = lipgloss.Color("7")

	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	rowStyle          = lipgloss.NewStyle().PaddingLeft(2).Foreground(colorText)
	selectedRowStyle  = lipgloss.NewStyle().PaddingLeft(1).Foreground(colorPrimary).Bold(true)
	activeRowStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	faintStyle        = lipgloss.NewStyle().Foreground(colorFaint)
	stateStyle        = lipgloss.NewStyle().Foreground(colorFaint).Align(lipgloss.Center)
	stateErrorStyle   = lipgloss.NewStyle().Foreground(colorError).Align(lipgloss.Center)
	connectingStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	statusStyle       = lipgloss.NewStyle().Foreground(colorWarning).MarginTop(1)
	footerButtonStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(colorFaint).Padding(0, 2)

	wifiStatusEnabled  = lipgloss.NewStyle().Foreground(colorSuccess)
	wifiStatusDisabled = lipgloss.NewStyle().Foreground(colorError)

	signalLevelStyles = map[gonetworkmanager.SignalLevel]lipgloss.Style{
		gonetworkmanager.SignalNone:      faintStyle,
		gonetworkmanager.SignalWeak:      lipgloss.NewStyle().Foreground(colorError),
		gonetworkmanager.SignalOK:        lipgloss.NewStyle().Foreground(colorWarning),
		gonetworkmanager.SignalGood:      lipgloss.NewStyle().Foreground(colorSuccess),
		gonetworkmanager.SignalExcellent: lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
	}
)

// =============================================================================
// Popover phases
// =============================================================================

type phase int

const (
	phaseLoading phase = iota
	phaseList
	phaseEmpty
	phaseDisabled
	phaseError
)

func (p phase) String() string {
	names := []string{"Loading", "List", "Empty", "Disabled", "Error"}
	if int(p) < len(names) {
		return names[p]
	}
	return fmt.Sprintf("Unknown(%d)", p)
}

// =============================================================================
// Network rows
// =============================================================================

type networkItem struct {
	gonetworkmanager.AccessPoint
}

func (n networkItem) FilterValue() string { return n.SSID }

// SignalBars renders one lit bar per signal level above none.
func (n networkItem) SignalBars() string {
	level := n.Level()
	bars := []rune(signalBarGlyph)
	lit := int(level)
	if lit > len(bars) {
		lit = len(bars)
	}
	return signalLevelStyles[level].Render(string(bars[:lit])) + faintStyle.Render(string(bars[lit:]))
}

func (n networkItem) Trailing() string {
	var marks []string
	if n.Secure {
		marks = append(marks, "🔒")
	}
	if n.Active {
		marks = append(marks, activeRowStyle.Render("✔"))
	}
	return strings.Join(marks, " ")
}

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	n, ok := listItem.(networkItem)
	if !ok {
		return
	}

	ssid := n.SSID
	if n.Active {
		ssid = activeRowStyle.Render(ssid)
	}
	row := fmt.Sprintf("%s %s  %s", n.SignalBars(), ssid, n.Trailing())

	if index == m.Index() {
		fmt.Fprint(w, selectedRowStyle.Render("▸ "+row))
		return
	}
	fmt.Fprint(w, rowStyle.Render("  "+row))
}

// =============================================================================
// Messages
// =============================================================================

type radioStateMsg struct {
	enabled bool
	err     error
}

type scanResultMsg struct {
	aps []gonetworkmanager.AccessPoint
	err error
}

type toggleResultMsg struct {
	enable bool
	err    error
}

type rescanMsg struct{}

type settingsResultMsg struct {
	err error
}

// =============================================================================
// Key Bindings
// =============================================================================

type keyMap struct {
	Select     key.Binding
	Up         key.Binding
	Down       key.Binding
	ToggleWifi key.Binding
	Refresh    key.Binding
	Settings   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.ToggleWifi, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.ToggleWifi, k.Refresh, k.Settings},
		{k.Help, k.Quit},
	}
}

var defaultKeyBindings = keyMap{
	Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	ToggleWifi: key.NewBinding(key.WithKeys("t", " "), key.WithHelp("t", "toggle Wi-Fi")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Settings:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "all networks")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "close")),
}

// =============================================================================
// Main Model
// =============================================================================

type tuiOptions struct {
	rescanDelay time.Duration
	launchers   [][]string
	spawn       spawnFunc
	log         zerolog.Logger
}

type model struct {
	ctx  context.Context
	nm   *gonetworkmanager.Client
	opts tuiOptions

	phase       phase
	stateMsg    string
	wifiEnabled bool
	toggling    bool
	statusMsg   string

	wifiList list.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	width, height int
}

func newModel(ctx context.Context, nm *gonetworkmanager.Client, opts tuiOptions) model {
	wifiList := list.New([]list.Item{}, itemDelegate{}, popoverWidth, minListHeight)
	wifiList.SetShowTitle(false)
	wifiList.SetShowStatusBar(false)
	wifiList.SetShowHelp(false)
	wifiList.SetShowPagination(true)
	wifiList.SetFilteringEnabled(false)
	wifiList.DisableQuitKeybindings()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = connectingStyle

	h := help.New()
	h.Styles = help.Styles{
		ShortKey:       faintStyle,
		ShortDesc:      faintStyle,
		ShortSeparator: faintStyle,
		FullKey:        faintStyle,
		FullDesc:       faintStyle,
		FullSeparator:  faintStyle,
		Ellipsis:       faintStyle,
	}

	return model{
		ctx:         ctx,
		nm:          nm,
		opts:        opts,
		phase:       phaseLoading,
		stateMsg:    msgSearching,
		wifiEnabled: true,
		wifiList:    wifiList,
		spinner:     s,
		help:        h,
		keys:        defaultKeyBindings,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(queryRadioCmd(m.ctx, m.nm), m.spinner.Tick)
}

// =============================================================================
// Commands
// =============================================================================

func queryRadioCmd(ctx context.Context, nm *gonetworkmanager.Client) tea.Cmd {
	return func() tea.Msg {
		res := <-nm.WifiEnabledAsync(ctx)
		return radioStateMsg{enabled: res.Value, err: res.Err}
	}
}

func scanCmd(ctx context.Context, nm *gonetworkmanager.Client) tea.Cmd {
	return func() tea.Msg {
		res := <-nm.ScanAccessPointsAsync(ctx)
		return scanResultMsg{aps: res.Value, err: res.Err}
	}
}

func toggleWifiCmd(ctx context.Context, nm *gonetworkmanager.Client, enable bool) tea.Cmd {
	return func() tea.Msg {
		return toggleResultMsg{enable: enable, err: <-nm.SetWifiEnabledAsync(ctx, enable)}
	}
}

func rescanAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return rescanMsg{} })
}

func openSettingsCmd(launchers [][]string, spawn spawnFunc) tea.Cmd {
	return func() tea.Msg {
		return settingsResultMsg{err: openSettings(launchers, spawn)}
	}
}

// =============================================================================
// Update
// =============================================================================

func (m *model) setLoading(msg string) tea.Cmd {
	m.phase = phaseLoading
	m.stateMsg = msg
	m.wifiList.SetItems(nil)
	return m.spinner.Tick
}

func (m *model) setState(p phase, msg string) {
	m.phase = p
	m.stateMsg = msg
	m.wifiList.SetItems(nil)
}

func (m *model) refresh() tea.Cmd {
	return tea.Batch(m.setLoading(msgSearching), queryRadioCmd(m.ctx, m.nm))
}

func (m *model) applyScan(msg scanResultMsg) {
	switch {
	case msg.err != nil:
		m.opts.log.Warn().Err(msg.err).Msg("scan failed")
		m.setState(phaseError, msgScanFailed)
	case len(msg.aps) == 0:
		m.setState(phaseEmpty, msgNoNetworks)
	default:
		items := make([]list.Item, len(msg.aps))
		for i, ap := range msg.aps {
			items[i] = networkItem{AccessPoint: ap}
		}
		m.phase = phaseList
		m.stateMsg = ""
		m.wifiList.SetItems(items)
		m.wifiList.Select(0)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeComponents()
		return m, nil

	case spinner.TickMsg:
		if m.phase == phaseLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case radioStateMsg:
		enabled := msg.enabled
		if msg.err != nil {
			m.opts.log.Warn().Err(msg.err).Msg("could not read radio state, assuming enabled")
			enabled = true
		}
		m.wifiEnabled = enabled
		if !enabled {
			m.setState(phaseDisabled, msgDisabled)
			return m, nil
		}
		return m, tea.Batch(m.setLoading(msgSearching), scanCmd(m.ctx, m.nm))

	case scanResultMsg:
		if !m.wifiEnabled || m.toggling {
			return m, nil
		}
		m.applyScan(msg)
		return m, nil

	case toggleResultMsg:
		m.toggling = false
		if msg.err != nil {
			m.opts.log.Warn().Err(msg.err).Bool("enable", msg.enable).Msg("radio toggle failed")
			m.wifiEnabled = !msg.enable
			m.setState(phaseError, msgToggleFailed)
			return m, nil
		}
		if !msg.enable {
			m.setState(phaseDisabled, msgDisabled)
			return m, nil
		}
		return m, tea.Batch(m.setLoading(msgSearching), rescanAfter(m.opts.rescanDelay))

	case rescanMsg:
		if !m.wifiEnabled || m.toggling {
			return m, nil
		}
		return m, scanCmd(m.ctx, m.nm)

	case settingsResultMsg:
		if msg.err != nil {
			m.opts.log.Warn().Err(msg.err).Msg("settings launcher failed")
			m.statusMsg = msgSettingsAbsent
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.ToggleWifi):
		if m.toggling {
			return m, nil
		}
		enable := !m.wifiEnabled
		m.wifiEnabled = enable
		m.toggling = true
		label := msgDisabling
		if enable {
			label = msgEnabling
		}
		return m, tea.Batch(m.setLoading(label), toggleWifiCmd(m.ctx, m.nm, enable))

	case key.Matches(msg, m.keys.Refresh):
		if m.toggling {
			return m, nil
		}
		return m, m.refresh()

	case key.Matches(msg, m.keys.Settings):
		return m, openSettingsCmd(m.opts.launchers, m.opts.spawn)

	case key.Matches(msg, m.keys.Select):
		if m.phase != phaseList {
			return m, nil
		}
		n, ok := m.wifiList.SelectedItem().(networkItem)
		if !ok {
			return m, nil
		}
		if n.Active {
			return m, tea.Quit
		}
		return m, openSettingsCmd(m.opts.launchers, m.opts.spawn)
	}

	if m.phase == phaseList {
		var cmd tea.Cmd
		m.wifiList, cmd = m.wifiList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) resizeComponents() {
	width := popoverWidth
	if m.width > 0 && m.width-appStyle.GetHorizontalFrameSize() < width {
		width = m.width - appStyle.GetHorizontalFrameSize()
	}
	height := m.height - chromeHeight
	if height < minListHeight {
		height = minListHeight
	}
	m.wifiList.SetSize(width, height)
	m.help.Width = width
}

// =============================================================================
// View
// =============================================================================

func (m model) View() string {
	width := m.wifiList.Width()
	header := m.headerView(width)

	var body string
	switch m.phase {
	case phaseList:
		body = m.wifiList.View()
	case phaseLoading:
		body = stateStyle.Width(width).Render("\n" + m.spinner.View() + " " + m.stateMsg + "\n")
	case phaseError:
		body = stateErrorStyle.Width(width).Render("\n⚠ " + m.stateMsg + "\n")
	default:
		body = stateStyle.Width(width).Render("\n" + m.stateMsg + "\n")
	}

	footer := lipgloss.PlaceHorizontal(width, lipgloss.Center, footerButtonStyle.Render("All Networks… (s)"))
	parts := []string{header, body, footer}
	if m.statusMsg != "" {
		parts = append(parts, statusStyle.Render(m.statusMsg))
	}
	parts = append(parts, m.help.View(m.keys))

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m model) headerView(width int) string {
	title := titleStyle.Render(appName)

	var status string
	switch {
	case m.toggling:
		status = connectingStyle.Render("…")
	case m.wifiEnabled:
		status = wifiStatusEnabled.Render("● On")
	default:
		status = wifiStatusDisabled.Render("○ Off")
	}

	spacing := width - lipgloss.Width(title) - lipgloss.Width(status)
	if spacing < 1 {
		spacing = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, title, strings.Repeat(" ", spacing), status)
}
