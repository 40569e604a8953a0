package viz

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/bisect/internal/config"
	"github.com/san-kum/bisect/internal/experiment"
	"github.com/san-kum/bisect/internal/plot"
)

const (
	fieldEquation = iota
	fieldA
	fieldB
	fieldTol
	numFields
)

var fieldLabels = [numFields]string{"Equation:", "Start (a):", "End (b):", "Tolerance:"}

// FormOptions configures the interactive solver.
type FormOptions struct {
	Config     *config.Config
	Experiment *experiment.Experiment
	// OnSolve runs after every successful solve and returns a status line,
	// e.g. where results were written.
	OnSolve func(o *experiment.Outcome) (string, error)
}

type solvedMsg struct {
	outcome *experiment.Outcome
	points  []plot.Point
	status  string
	err     error
}

// Form is the bubbletea model behind the tui command.
type Form struct {
	opts    FormOptions
	inputs  []textinput.Model
	focus   int
	styles  Styles
	theme   int
	solving bool

	outcome *experiment.Outcome
	points  []plot.Point
	status  string
	err     error

	width, height int
}

func NewForm(opts FormOptions) Form {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Experiment == nil {
		opts.Experiment = experiment.New(nil)
	}
	cfg := opts.Config

	values := [numFields]string{
		cfg.Equation,
		formatInput(cfg.A),
		formatInput(cfg.B),
		formatInput(cfg.Tolerance),
	}

	inputs := make([]textinput.Model, numFields)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[fieldEquation].Placeholder = "x^3 - x - 2"
	inputs[fieldEquation].Focus()

	theme := 0
	for i, t := range Themes {
		if t.Name == cfg.Theme {
			theme = i
		}
	}

	return Form{
		opts:   opts,
		inputs: inputs,
		styles: NewStyles(Themes[theme]),
		theme:  theme,
		width:  80,
		height: 24,
	}
}

func (m Form) Init() tea.Cmd { return textinput.Blink }

func (m Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case solvedMsg:
		m.solving = false
		m.err = msg.err
		m.status = msg.status
		if msg.outcome != nil {
			m.outcome, m.points = msg.outcome, msg.points
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m.setFocus((m.focus + 1) % numFields), nil
		case "shift+tab", "up":
			return m.setFocus((m.focus + numFields - 1) % numFields), nil
		case "ctrl+t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = NewStyles(Themes[m.theme])
			return m, nil
		case "enter":
			if m.solving {
				return m, nil
			}
			m.solving = true
			m.err = nil
			m.status = ""
			return m, m.solve()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Form) setFocus(i int) Form {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

// solve reads the fields and runs the pipeline off the update loop.
func (m Form) solve() tea.Cmd {
	eq := m.inputs[fieldEquation].Value()
	a := m.inputs[fieldA].Value()
	b := m.inputs[fieldB].Value()
	tol := m.inputs[fieldTol].Value()
	opts := m.opts

	return func() tea.Msg {
		p, err := experiment.ParseProblem(eq, a, b, tol)
		if err != nil {
			return solvedMsg{err: err}
		}
		p.Name = "tui"

		out, err := opts.Experiment.Run(context.Background(), p)
		if err != nil {
			return solvedMsg{err: err}
		}

		points, err := plot.Sample(out.Function, p.A, p.B, opts.Config.Samples)
		if err != nil {
			return solvedMsg{err: err}
		}

		var status string
		if opts.OnSolve != nil {
			status, err = opts.OnSolve(out)
		}
		return solvedMsg{outcome: out, points: points, status: status, err: err}
	}
}

func (m Form) View() string {
	s := m.styles
	var sb strings.Builder

	sb.WriteString(GradientText("Bisection Method Solver", s.Theme.Primary, s.Theme.Accent))
	sb.WriteString("\n")
	sb.WriteString(s.Separator(min(m.width, 60)))
	sb.WriteString("\n\n")

	for i, in := range m.inputs {
		label := s.Label
		if i == m.focus {
			label = s.Focused
		}
		sb.WriteString(label.Render(padRight(fieldLabels[i], 12)))
		sb.WriteString(in.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	switch {
	case m.solving:
		sb.WriteString(s.Muted.Render("solving..."))
		sb.WriteString("\n")
	case m.err != nil:
		sb.WriteString(s.RenderError(m.err))
		sb.WriteString("\n")
	}
	if m.status != "" {
		sb.WriteString(s.Muted.Render(m.status))
		sb.WriteString("\n")
	}

	if m.outcome != nil {
		sb.WriteString("\n")
		plotOpts := plot.ASCIIOptions{
			Width:  max(min(m.width-12, m.opts.Config.Plot.Width), 20),
			Height: m.opts.Config.Plot.Height,
		}
		sb.WriteString(s.RenderResult(m.outcome, ResultOptions{
			MaxRows: max(m.height-plotOpts.Height-22, 5),
			Points:  m.points,
			Plot:    plotOpts,
		}))
	}

	sb.WriteString("\n")
	sb.WriteString(s.KeyHint.Render("enter solve • tab/↑↓ move • ctrl+t theme • esc quit"))
	return sb.String()
}

// RunForm starts the interactive solver and blocks until it exits.
func RunForm(opts FormOptions) error {
	p := tea.NewProgram(NewForm(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}

func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
