package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/0xlemi/tunenote/internal/engine"
	"github.com/0xlemi/tunenote/internal/pitch"
)

// Constants for UI behavior
const (
	// How long to keep displaying the last note once detection stops
	noteHoldDuration = 500 * time.Millisecond

	meterWidth     = 41
	sparklineWidth = 48
	inTuneCents    = 5
	closeCents     = 15
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(8)

	inTuneStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	closeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00"))
	offStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))

	// Note colors
	noteColors = map[string]string{
		"C": "#E8D6B0", // Beige
		"D": "#A020F0", // Purple
		"E": "#FFFF00", // Yellow
		"F": "#FFA500", // Orange
		"G": "#00FF00", // Green
		"A": "#FF0000", // Red
		"B": "#0000FF", // Blue
	}

	letters = []string{"C", "D", "E", "F", "G", "A", "B"}
)

func noteStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(color)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333"))
}

// neighbours returns the letters either side of an accidental: C♯ sits
// between C and D, E♭ between D and E.
func neighbours(name string) (lower, upper string) {
	if name == "" {
		return "", ""
	}
	letter := name[:1]
	i := 0
	for j, l := range letters {
		if l == letter {
			i = j
		}
	}
	switch {
	case strings.HasSuffix(name, "♯"):
		return letter, letters[(i+1)%len(letters)]
	case strings.HasSuffix(name, "♭"):
		return letters[(i+len(letters)-1)%len(letters)], letter
	}
	return letter, letter
}

// renderNote draws the note box. Naturals use their letter's color;
// accidentals are split between the colors of the two neighbouring letters.
func renderNote(note pitch.Note) string {
	lower, upper := neighbours(note.Name)
	if lower == upper {
		text := fmt.Sprintf("%-2s%d", note.Name, note.Octave)
		return noteStyle(noteColors[lower]).Padding(2, 4).Render(text)
	}

	leftStyle := noteStyle(noteColors[lower]).
		BorderRight(false).
		BorderLeft(true).
		BorderTop(true).
		BorderBottom(true).
		PaddingLeft(3).
		PaddingRight(1).
		PaddingTop(2).
		PaddingBottom(2)

	rightStyle := noteStyle(noteColors[upper]).
		BorderLeft(false).
		BorderRight(true).
		BorderTop(true).
		BorderBottom(true).
		PaddingLeft(1).
		PaddingRight(3).
		PaddingTop(2).
		PaddingBottom(2)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(note.Name[:1]),
		rightStyle.Render(fmt.Sprintf("%s%d", note.Name[1:], note.Octave)))
}

// TickMsg represents a timer tick
type TickMsg time.Time

// Model represents the UI state
type Model struct {
	src     engine.Source
	refresh time.Duration

	reading *engine.Reading
	held    *pitch.Pitch
	heldAt  time.Time

	width  int
	height int
}

// NewModel creates a UI that polls src every refresh interval.
func NewModel(src engine.Source, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = time.Second / 30
	}
	return Model{
		src:     src,
		refresh: refresh,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init initializes the UI model
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update updates the UI model based on messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		now := time.Time(msg)
		m.reading = m.src.Latest()
		if p := m.reading.Pitch(); p != nil {
			m.held = p
			m.heldAt = now
		} else if m.held != nil && now.Sub(m.heldAt) > noteHoldDuration {
			m.held = nil
		}
		return m, m.tick()
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TuneNote - Pitch Tuner"))
	b.WriteString("\n")

	if m.held != nil {
		note := m.held.Note()
		b.WriteString(renderNote(note))
		b.WriteString("\n")
		b.WriteString(centsStyle(note.Cents).Render(centsMeter(note.Cents, meterWidth)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Frequency: %.2f Hz | Cents: %+.1f", note.Frequency, note.Cents)))
	} else {
		b.WriteString(infoStyle.Render("Listening for audio..."))
	}
	b.WriteString("\n\n")

	if r := m.reading; r != nil {
		b.WriteString(labelStyle.Render("Level"))
		b.WriteString(infoStyle.Render(levelBar(r.DB, 30) + fmt.Sprintf(" %6.1f dB", r.DB)))
		b.WriteString("\n")
		if r.Model != nil {
			if r.Model.Signal != nil {
				b.WriteString(labelStyle.Render("Wave"))
				b.WriteString(infoStyle.Render(sparkline(r.Model.Signal.AlignedToRisingEdge(), m.sparkWidth())))
				b.WriteString("\n")
			}
			if r.Model.Correlation != nil {
				b.WriteString(labelStyle.Render("Corr"))
				b.WriteString(infoStyle.Render(sparkline(r.Model.Correlation.Values(), m.sparkWidth())))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(infoStyle.Render("Press q to quit"))
	return b.String()
}

func (m Model) sparkWidth() int {
	if m.width > 0 && m.width-10 < sparklineWidth {
		return max(m.width-10, 8)
	}
	return sparklineWidth
}

func centsStyle(cents float64) lipgloss.Style {
	switch a := math.Abs(cents); {
	case a < inTuneCents:
		return inTuneStyle
	case a < closeCents:
		return closeStyle
	}
	return offStyle
}

// centsMeter draws a horizontal needle for cents in [-50, 50) with the
// centre mark at width/2.
func centsMeter(cents float64, width int) string {
	if width < 3 {
		width = 3
	}
	center := width / 2
	pos := center + int(math.Round(cents/50*float64(center)))
	pos = min(max(pos, 0), width-1)

	cells := make([]rune, width)
	for i := range cells {
		cells[i] = '─'
	}
	cells[center] = '┼'
	cells[pos] = '▲'
	return "♭ " + string(cells) + " ♯"
}

// levelBar maps [-60, 0] dB onto width cells.
func levelBar(db float32, width int) string {
	filled := int(math.Round(float64(db+60) / 60 * float64(width)))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// sparkline resamples values to at most width columns, averaging each
// column, and scales them between the minimum and maximum.
func sparkline(values []float32, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if width > len(values) {
		width = len(values)
	}

	cols := make([]float32, width)
	for c := range cols {
		start := c * len(values) / width
		end := (c + 1) * len(values) / width
		var sum float32
		for _, v := range values[start:end] {
			sum += v
		}
		cols[c] = sum / float32(end-start)
	}

	lo, hi := cols[0], cols[0]
	for _, v := range cols {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := make([]rune, width)
	for i, v := range cols {
		level := 0
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float32(len(sparks)-1))
		}
		out[i] = sparks[level]
	}
	return string(out)
}
