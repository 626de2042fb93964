package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(1)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("170"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

type metric struct {
	name   string
	unit   string
	rng    entities.TargetRange
	value  func(r *entities.Reading) *float64
	target func(sp *entities.Setpoint) *float64
}

var metrics = []metric{
	{
		name: "Temperature", unit: "°C", rng: entities.TemperatureRange,
		value:  func(r *entities.Reading) *float64 { return r.Temperature },
		target: func(sp *entities.Setpoint) *float64 { return &sp.Temperature },
	},
	{
		name: "Humidity", unit: "%", rng: entities.HumidityRange,
		value:  func(r *entities.Reading) *float64 { return r.Humidity },
		target: func(sp *entities.Setpoint) *float64 { return &sp.Humidity },
	},
	{
		name: "Light", unit: "lx", rng: entities.LightRange,
		value:  func(r *entities.Reading) *float64 { return r.Light },
		target: func(sp *entities.Setpoint) *float64 { return &sp.Light },
	},
	{
		name: "Sound", unit: "dB", rng: entities.SoundRange,
		value:  func(r *entities.Reading) *float64 { return r.Sound },
		target: func(sp *entities.Setpoint) *float64 { return &sp.Sound },
	},
}

type model struct {
	serverURL string
	wsURL     string

	conn      *websocket.Conn
	connected bool

	latest    *entities.Reading
	feedCount int

	setpoints entities.Setpoint
	cursor    int
	dirty     bool
	saving    bool

	banner    string
	bannerErr bool
	quitting  bool
}

// Messages
type setpointsMsg entities.Setpoint
type recentMsg []entities.Reading
type readingMsg entities.Reading
type wsConnMsg struct{ conn *websocket.Conn }
type wsClosedMsg struct{}
type saveOKMsg entities.Setpoint
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel() model {
	serverURL := os.Getenv("SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:3545"
	}
	wsURL := strings.Replace(serverURL, "http", "ws", 1) + "/ws/live"

	return model{
		serverURL: serverURL,
		wsURL:     wsURL,
		setpoints: entities.DefaultSetpoint(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		fetchSetpoints(m.serverURL),
		fetchRecent(m.serverURL),
		dialWS(m.wsURL),
	)
}

func fetchSetpoints(serverURL string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(serverURL + "/api/v1/setpoints")
		if err != nil {
			return errMsg{fmt.Errorf("could not load setpoints: %w", err)}
		}
		defer resp.Body.Close()

		var body struct {
			Data entities.Setpoint `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return errMsg{fmt.Errorf("could not decode setpoints: %w", err)}
		}
		return setpointsMsg(body.Data)
	}
}

func fetchRecent(serverURL string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(serverURL + "/api/v1/feed")
		if err != nil {
			return errMsg{fmt.Errorf("could not load feed: %w", err)}
		}
		defer resp.Body.Close()

		var body struct {
			Data []entities.Reading `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return errMsg{fmt.Errorf("could not decode feed: %w", err)}
		}
		return recentMsg(body.Data)
	}
}

func dialWS(wsURL string) tea.Cmd {
	return func() tea.Msg {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			return errMsg{fmt.Errorf("live stream unavailable: %w", err)}
		}
		return wsConnMsg{conn: conn}
	}
}

func waitForReading(conn *websocket.Conn) tea.Cmd {
	return func() tea.Msg {
		var push struct {
			Type string           `json:"type"`
			Data entities.Reading `json:"data"`
		}
		if err := conn.ReadJSON(&push); err != nil {
			return wsClosedMsg{}
		}
		return readingMsg(push.Data)
	}
}

func saveSetpoints(serverURL string, sp entities.Setpoint) tea.Cmd {
	return func() tea.Msg {
		payload, _ := json.Marshal(map[string]float64{
			"temperature": sp.Temperature,
			"humidity":    sp.Humidity,
			"light":       sp.Light,
			"sound":       sp.Sound,
		})

		req, _ := http.NewRequest(http.MethodPut, serverURL+"/api/v1/setpoints", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("save failed: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			var body struct {
				Error string `json:"error"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&body)
			if body.Error == "" {
				body.Error = resp.Status
			}
			return errMsg{fmt.Errorf("save failed: %s", body.Error)}
		}
		return saveOKMsg(sp)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case setpointsMsg:
		if !m.dirty {
			m.setpoints = entities.Setpoint(msg)
		}
		return m, nil

	case recentMsg:
		m.feedCount = len(msg)
		if n := len(msg); n > 0 {
			r := msg[n-1]
			m.latest = &r
		}
		return m, nil

	case wsConnMsg:
		m.conn = msg.conn
		m.connected = true
		return m, waitForReading(m.conn)

	case wsClosedMsg:
		m.connected = false
		m.conn = nil
		return m, nil

	case readingMsg:
		r := entities.Reading(msg)
		m.latest = &r
		m.feedCount++
		return m, waitForReading(m.conn)

	case saveOKMsg:
		m.saving = false
		m.dirty = false
		m.setpoints = entities.Setpoint(msg)
		m.banner = "Setpoints saved"
		m.bannerErr = false
		return m, nil

	case errMsg:
		m.saving = false
		m.banner = msg.Error()
		m.bannerErr = true
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An error banner blocks input until dismissed
	if m.bannerErr && msg.String() != "esc" && msg.String() != "q" && msg.String() != "ctrl+c" {
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.conn != nil {
			_ = m.conn.Close()
		}
		return m, tea.Quit

	case "esc":
		m.banner = ""
		m.bannerErr = false

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(metrics)-1 {
			m.cursor++
		}

	case "left", "h", "-":
		m.adjust(-1)

	case "right", "l", "+":
		m.adjust(1)

	case "s":
		if !m.saving {
			m.saving = true
			m.banner = ""
			return m, saveSetpoints(m.serverURL, m.setpoints)
		}

	case "r":
		return m, tea.Batch(fetchSetpoints(m.serverURL), fetchRecent(m.serverURL))
	}

	return m, nil
}

// adjust moves the selected target by one step, clamped to its range.
func (m *model) adjust(direction float64) {
	sel := metrics[m.cursor]
	target := sel.target(&m.setpoints)
	*target = sel.rng.Clamp(*target + direction*sel.rng.Step)
	m.dirty = true
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Ruang Iklim — Control Room Dashboard"))
	b.WriteString("\n")

	cards := make([]string, 0, len(metrics))
	for i, met := range metrics {
		cards = append(cards, m.renderCard(i, met))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	status := fmt.Sprintf("%d readings buffered", m.feedCount)
	if m.connected {
		status += "  ·  " + successStyle.Render("live")
	} else {
		status += "  ·  " + dimStyle.Render("offline")
	}
	if m.latest != nil && m.latest.DisplayTime != "" {
		status += "  ·  last " + m.latest.DisplayTime
	}
	b.WriteString(dimStyle.Render(status))
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString("\n")
		if m.bannerErr {
			b.WriteString(errorStyle.Render("✗ " + m.banner + "  (esc to dismiss)"))
		} else {
			b.WriteString(successStyle.Render("✓ " + m.banner))
		}
		b.WriteString("\n")
	}

	help := "↑/↓ select · ←/→ adjust target · s save · r refresh · q quit"
	if m.saving {
		help = "saving…"
	}
	b.WriteString("\n" + dimStyle.Render(help) + "\n")

	return b.String()
}

func (m model) renderCard(i int, met metric) string {
	var value string
	if m.latest != nil {
		value = formatValue(met.value(m.latest), met.unit)
	} else {
		value = "—"
	}

	target := *met.target(&m.setpoints)

	var b strings.Builder
	b.WriteString(labelStyle.Render(met.name))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("target %s", trimFloat(target))))

	if i == m.cursor {
		return selectedCardStyle.Render(b.String())
	}
	return cardStyle.Render(b.String())
}

// formatValue renders a measurement, or a placeholder when the sensor did
// not report it.
func formatValue(v *float64, unit string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%s %s", trimFloat(*v), unit)
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s
}

func main() {
	if _, err := tea.NewProgram(initialModel()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
