package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gogpu/spirvcross"
	"github.com/gogpu/spirvcross/msl"
	"github.com/gogpu/spirvcross/spirv"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectorState int

const (
	stateOptions inspectorState = iota
	stateBufferIndices
	stateSource
)

// optionRow is one togglable/cyclable entry in the options view.
type optionRow struct {
	name   string
	value  func(*msl.CompilerOptions) string
	toggle func(*msl.CompilerOptions)
}

type inspectorModel struct {
	err      error
	filename string
	backend  spirvcross.Backend
	compiler *msl.Compiler
	opts     msl.CompilerOptions
	rows     []optionRow
	inputs   []textinput.Model
	source   string
	selected int
	focusIdx int
	state    inspectorState
}

var knownVersions = []msl.Version{
	msl.Version1_0, msl.Version1_1, msl.Version1_2, msl.Version2_0, msl.Version2_1,
}

// bufferIndexFields lists the editable buffer-index slots in display
// order.
var bufferIndexFields = []struct {
	name  string
	field func(*msl.CompilerOptions) *uint32
}{
	{"swizzle", func(o *msl.CompilerOptions) *uint32 { return &o.SwizzleBufferIndex }},
	{"indirect-params", func(o *msl.CompilerOptions) *uint32 { return &o.IndirectParamsBufferIndex }},
	{"output", func(o *msl.CompilerOptions) *uint32 { return &o.OutputBufferIndex }},
	{"patch-output", func(o *msl.CompilerOptions) *uint32 { return &o.PatchOutputBufferIndex }},
	{"tess-factor", func(o *msl.CompilerOptions) *uint32 { return &o.TessellationFactorBufferIndex }},
	{"buffer-size", func(o *msl.CompilerOptions) *uint32 { return &o.BufferSizeBufferIndex }},
}

func boolRow(name string, field func(*msl.CompilerOptions) *bool) optionRow {
	return optionRow{
		name:   name,
		value:  func(o *msl.CompilerOptions) string { return strconv.FormatBool(*field(o)) },
		toggle: func(o *msl.CompilerOptions) { *field(o) = !*field(o) },
	}
}

func optionRows() []optionRow {
	return []optionRow{
		{
			name:  "platform",
			value: func(o *msl.CompilerOptions) string { return o.Platform.String() },
			toggle: func(o *msl.CompilerOptions) {
				if o.Platform == msl.PlatformMacOS {
					o.Platform = msl.PlatformIOS
				} else {
					o.Platform = msl.PlatformMacOS
				}
			},
		},
		{
			name:  "version",
			value: func(o *msl.CompilerOptions) string { return o.Version.String() },
			toggle: func(o *msl.CompilerOptions) {
				for i, v := range knownVersions {
					if v == o.Version {
						o.Version = knownVersions[(i+1)%len(knownVersions)]
						return
					}
				}
				o.Version = knownVersions[0]
			},
		},
		boolRow("invert-y", func(o *msl.CompilerOptions) *bool { return &o.Vertex.InvertY }),
		boolRow("transform-clip-space", func(o *msl.CompilerOptions) *bool { return &o.Vertex.TransformClipSpace }),
		boolRow("point-size-builtin", func(o *msl.CompilerOptions) *bool { return &o.EnablePointSizeBuiltin }),
		boolRow("rasterization", func(o *msl.CompilerOptions) *bool { return &o.EnableRasterization }),
		boolRow("capture-output", func(o *msl.CompilerOptions) *bool { return &o.CaptureOutputToBuffer }),
		boolRow("swizzle-texture-samples", func(o *msl.CompilerOptions) *bool { return &o.SwizzleTextureSamples }),
		boolRow("tess-origin-lower-left", func(o *msl.CompilerOptions) *bool { return &o.TessellationDomainOriginLowerLeft }),
		boolRow("argument-buffers", func(o *msl.CompilerOptions) *bool { return &o.EnableArgumentBuffers }),
		boolRow("pad-fragment-output", func(o *msl.CompilerOptions) *bool { return &o.PadFragmentOutputComponents }),
	}
}

func newInspectorModel(filename string, backend spirvcross.Backend, opts msl.CompilerOptions) *inspectorModel {
	return &inspectorModel{
		filename: filename,
		backend:  backend,
		opts:     opts,
		rows:     optionRows(),
		state:    stateOptions,
	}
}

type sessionMsg struct {
	err      error
	compiler *msl.Compiler
}

type compileMsg struct {
	err    error
	source string
}

func (m *inspectorModel) Init() tea.Cmd {
	return m.openSession
}

func (m *inspectorModel) openSession() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return sessionMsg{err: err}
	}
	module, err := spirv.ModuleFromBytes(data)
	if err != nil {
		return sessionMsg{err: err}
	}
	compiler, err := msl.NewCompiler(m.backend, module)
	if err != nil {
		return sessionMsg{err: err}
	}
	return sessionMsg{compiler: compiler}
}

func (m *inspectorModel) compile() tea.Msg {
	if err := m.compiler.SetOptions(m.opts); err != nil {
		return compileMsg{err: err}
	}
	source, err := m.compiler.Compile()
	return compileMsg{source: source, err: err}
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateBufferIndices && msg.String() == "q" {
				break // let q reach the text inputs; only ctrl+c quits here
			}
			if m.compiler != nil {
				m.compiler.Close()
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateOptions && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateOptions && m.selected < len(m.rows)-1 {
				m.selected++
			}

		case "enter", " ":
			switch m.state {
			case stateOptions:
				m.rows[m.selected].toggle(&m.opts)
			case stateBufferIndices:
				if err := m.applyBufferIndices(); err != nil {
					m.err = err
				} else {
					m.err = nil
					m.state = stateOptions
					m.inputs = nil
				}
			case stateSource:
				m.state = stateOptions
				m.source = ""
				m.err = nil
			}

		case "b":
			if m.state == stateOptions {
				m.prepareInputs()
				m.state = stateBufferIndices
			}

		case "c":
			if m.state == stateOptions && m.compiler != nil {
				return m, m.compile
			}

		case "tab":
			if m.state == stateBufferIndices && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateBufferIndices:
				m.state = stateOptions
				m.inputs = nil
				m.err = nil
			case stateSource:
				m.state = stateOptions
				m.source = ""
				m.err = nil
			}
		}

	case sessionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.compiler = msg.compiler

	case compileMsg:
		m.source = msg.source
		m.err = msg.err
		m.state = stateSource
	}

	if m.state == stateBufferIndices {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *inspectorModel) prepareInputs() {
	m.inputs = make([]textinput.Model, len(bufferIndexFields))
	for i, f := range bufferIndexFields {
		ti := textinput.New()
		ti.Prompt = f.name + ": "
		ti.SetValue(strconv.FormatUint(uint64(*f.field(&m.opts)), 10))
		ti.Width = 12
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *inspectorModel) applyBufferIndices() error {
	for i, f := range bufferIndexFields {
		v, err := strconv.ParseUint(m.inputs[i].Value(), 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.field(&m.opts) = uint32(v)
	}
	return nil
}

func (m *inspectorModel) View() string {
	if m.err != nil && m.state == stateOptions {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.compiler == nil {
		return "Loading module..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("MSL Option Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateOptions:
		for i, row := range m.rows {
			line := fmt.Sprintf("%-24s %s", row.name, valueStyle.Render(row.value(&m.opts)))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter toggle • b buffer indices • c compile • q quit"))

	case stateBufferIndices:
		b.WriteString("Buffer index assignments:\n\n")
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(m.err.Error()))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter apply • esc back"))

	case stateSource:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(sourceStyle.Render(m.source))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}

func runInteractive(filename string, backend spirvcross.Backend, opts msl.CompilerOptions) error {
	p := tea.NewProgram(newInspectorModel(filename, backend, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
