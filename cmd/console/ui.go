package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/crawl-engine/pkg/crawl"
	"github.com/jwebster45206/crawl-engine/pkg/textsub"
)

// UI phases.
const (
	phaseForm = iota
	phaseWaiting
	phaseViewing
)

const pollInterval = 3 * time.Second

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	stopStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Bold(true)

	puzzleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config *ConsoleConfig
	client *http.Client

	phase    int
	inputs   []textinput.Model
	focused  int
	spinner  spinner.Model
	viewport viewport.Model
	game     *crawl.Game
	err      error
	status   string
	width    int
	height   int
	ready    bool

	showQuitModal bool
}

type gameQueuedMsg struct {
	game *crawl.Game
	err  error
}

type gameStatusMsg struct {
	game *crawl.Game
	err  error
}

type pollTickMsg struct{}

// Form field indexes.
const (
	fieldTheme = iota
	fieldCity
	fieldArea
	fieldStops
	fieldPuzzles
	fieldDifficulty
	fieldCount
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	inputs := make([]textinput.Model, fieldCount)

	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 120
		ti.Width = 40
		inputs[i] = ti
	}

	inputs[fieldTheme].Placeholder = "Murder at the Brewery"
	inputs[fieldTheme].Focus()
	inputs[fieldCity].Placeholder = "Bristol"
	inputs[fieldArea].Placeholder = "(optional) Old City"
	inputs[fieldStops].Placeholder = "4"
	inputs[fieldPuzzles].Placeholder = "2"
	inputs[fieldDifficulty].Placeholder = "easy / medium / hard / expert"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:   cfg,
		client:   client,
		phase:    phaseForm,
		inputs:   inputs,
		spinner:  sp,
		viewport: vp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width - 4
		m.viewport.Height = m.height - 4
		if m.game != nil && m.phase == phaseViewing {
			m.viewport.SetContent(m.renderGame())
		}
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		}

		switch m.phase {
		case phaseForm:
			return m.updateForm(msg)
		case phaseViewing:
			return m.updateViewing(msg)
		}

	case gameQueuedMsg:
		if msg.err != nil {
			m.phase = phaseForm
			m.err = msg.err
			return m, nil
		}
		m.game = msg.game
		m.status = "Generation queued, waiting for a worker..."
		return m, tea.Batch(m.spinner.Tick, pollTick())

	case gameStatusMsg:
		if msg.err != nil {
			// Transient poll failure; keep waiting.
			m.status = "Waiting (last poll failed: " + msg.err.Error() + ")"
			return m, pollTick()
		}
		m.game = msg.game
		switch msg.game.Status {
		case crawl.GameStatusComplete:
			m.phase = phaseViewing
			m.viewport.SetContent(m.renderGame())
			m.viewport.GotoTop()
			return m, nil
		case crawl.GameStatusFailed:
			m.phase = phaseForm
			m.err = fmt.Errorf("generation failed: %s", msg.game.FailureKind)
			return m, nil
		default:
			m.status = "Generating your crawl..."
			return m, pollTick()
		}

	case pollTickMsg:
		if m.phase == phaseWaiting && m.game != nil {
			return m, m.pollGame()
		}

	case spinner.TickMsg:
		if m.phase == phaseWaiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	if m.phase == phaseViewing {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ConsoleUI) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focused = (m.focused + 1) % len(m.inputs)
		return m.refocus()
	case tea.KeyShiftTab, tea.KeyUp:
		m.focused = (m.focused - 1 + len(m.inputs)) % len(m.inputs)
		return m.refocus()
	case tea.KeyEnter:
		req, err := m.buildRequest()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.phase = phaseWaiting
		m.status = "Queueing generation..."
		return m, tea.Batch(m.spinner.Tick, m.queueGeneration(req))
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m ConsoleUI) refocus() (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		if i == m.focused {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, textinput.Blink
}

func (m ConsoleUI) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		if m.game != nil {
			data, err := json.MarshalIndent(m.game, "", "  ")
			if err == nil {
				if err := clipboard.WriteAll(string(data)); err == nil {
					m.status = "Game JSON copied to clipboard"
				} else {
					m.status = "Clipboard copy failed: " + err.Error()
				}
			}
		}
		return m, nil
	case "n":
		m.phase = phaseForm
		m.game = nil
		m.err = nil
		m.status = ""
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// buildRequest assembles a GenerationRequest from the form fields.
func (m ConsoleUI) buildRequest() (crawl.GenerationRequest, error) {
	req := crawl.GenerationRequest{
		Theme:      strings.TrimSpace(m.inputs[fieldTheme].Value()),
		City:       strings.TrimSpace(m.inputs[fieldCity].Value()),
		Area:       strings.TrimSpace(m.inputs[fieldArea].Value()),
		Difficulty: strings.TrimSpace(m.inputs[fieldDifficulty].Value()),
	}

	stops := strings.TrimSpace(m.inputs[fieldStops].Value())
	if stops == "" {
		stops = "4"
	}
	n, err := strconv.Atoi(stops)
	if err != nil {
		return req, fmt.Errorf("stops must be a number")
	}
	req.StopCount = n

	puzzles := strings.TrimSpace(m.inputs[fieldPuzzles].Value())
	if puzzles == "" {
		puzzles = "2"
	}
	n, err = strconv.Atoi(puzzles)
	if err != nil {
		return req, fmt.Errorf("puzzles per stop must be a number")
	}
	req.PuzzlesPerStop = n

	return req, req.Validate()
}

func (m ConsoleUI) queueGeneration(req crawl.GenerationRequest) tea.Cmd {
	return func() tea.Msg {
		game, err := generateAsync(m.client, m.config.APIBaseURL, req)
		return gameQueuedMsg{game, err}
	}
}

func (m ConsoleUI) pollGame() tea.Cmd {
	return func() tea.Msg {
		game, err := getGame(m.client, m.config.APIBaseURL, m.game.ID)
		return gameStatusMsg{game, err}
	}
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.phase == phaseForm {
					return m, textinput.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	switch m.phase {
	case phaseWaiting:
		return m.renderWaiting()
	case phaseViewing:
		return m.renderViewing()
	default:
		return m.renderForm()
	}
}

func (m ConsoleUI) renderForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CRAWL ENGINE") + "\n\n")
	b.WriteString("Describe the pub crawl mystery you want to generate.\n\n")

	labels := []string{"Theme", "City", "Area", "Stops", "Puzzles per stop", "Difficulty"}
	for i, label := range labels {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", label+":")))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	b.WriteString(promptStyle.Render("Tab/↑/↓ to move, Enter to generate, Ctrl+C to quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m ConsoleUI) renderWaiting() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CRAWL ENGINE") + "\n\n")
	b.WriteString(m.spinner.View() + " " + loadingStyle.Render(m.status) + "\n\n")
	if m.game != nil {
		b.WriteString(promptStyle.Render("Game ID: "+m.game.ID.String()) + "\n")
	}
	b.WriteString("\n" + promptStyle.Render("Generation can take a minute or two. Ctrl+C to quit."))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m ConsoleUI) renderViewing() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	footer := promptStyle.Render("↑/↓ scroll, c to copy JSON, n for a new game, Ctrl+C to quit")
	if m.status != "" {
		footer = loadingStyle.Render(m.status) + "  " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		separatorStyle.Render(strings.Repeat("─", max(10, m.width-4))),
		footer,
	)
}

// renderGame formats the generated game for reading, with placeholder
// tokens substituted by venue names.
func (m ConsoleUI) renderGame() string {
	if m.game == nil || m.game.Response == nil {
		return "No game loaded."
	}

	width := m.viewport.Width - 4
	if width < 20 {
		width = 60
	}

	resp := textsub.SubstituteResponse(*m.game.Response)

	var b strings.Builder
	b.WriteString(titleStyle.Render(resp.Story.Title) + "\n\n")
	b.WriteString(wordwrap.String(resp.Story.Introduction.Body, width) + "\n\n")

	for _, loc := range resp.Locations {
		b.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n")
		b.WriteString(stopStyle.Render(fmt.Sprintf("Stop %d: %s", loc.Order, textsub.NormalizeName(loc.Name))) + "\n\n")
		b.WriteString(wordwrap.String(loc.Narrative, width) + "\n\n")

		for _, p := range resp.PuzzlesForStop(loc.Order) {
			b.WriteString(puzzleStyle.Render("Puzzle: "+p.Title) + "\n")
			b.WriteString(wordwrap.String(p.Content, width) + "\n")
			b.WriteString(labelStyle.Render("Answer: ") + p.Answer + "\n")
			for i, clue := range p.Clues {
				b.WriteString(promptStyle.Render(fmt.Sprintf("Clue %d: %s", i+1, clue)) + "\n")
			}
			b.WriteString("\n")
		}

		if loc.Transition != "" {
			b.WriteString(wordwrap.String(loc.Transition, width) + "\n\n")
		}
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n")
	b.WriteString(titleStyle.Render("Resolution") + "\n\n")
	b.WriteString(wordwrap.String(resp.Story.Resolution.Body, width) + "\n")

	return b.String()
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(40).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
