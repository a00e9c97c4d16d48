package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/render"
	"github.com/matzehuels/foodweb/pkg/workspace"
)

// Editor styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle        = lipgloss.NewStyle().Foreground(colorGray).Width(7)
	statusErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// Focus targets, in tab order.
const (
	focusName = iota
	focusEats
	focusColor
	focusList
	focusCount
)

// =============================================================================
// EditorModel - Interactive creature editing
// =============================================================================

// frameMsg carries a frame presented on the preview surface.
type frameMsg render.Frame

// EditorModel is the bubbletea model behind foodweb edit. It drives a
// workspace: the form edits the draft, the list selects records, and
// every change is synced to the render session by the workspace.
type EditorModel struct {
	ctx    context.Context
	ws     *workspace.Workspace
	frames <-chan render.Frame
	path   string

	inputs []textinput.Model
	focus  int
	cursor int

	status     string
	failed     bool
	frame      render.Frame
	frameCount int
}

// NewEditorModel creates an editor over ws. Frames read from frames are
// shown in the status bar; save writes the collection to path.
func NewEditorModel(ctx context.Context, ws *workspace.Workspace, frames <-chan render.Frame, path string) EditorModel {
	placeholders := []string{"Fox", "Rabbit, Mouse", creature.DefaultColor}
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.Prompt = ""
		in.CharLimit = 256
		inputs[i] = in
	}
	m := EditorModel{ctx: ctx, ws: ws, frames: frames, path: path, inputs: inputs}
	m.loadDraft()
	m.inputs[focusName].Focus()
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitFrame(m.frames))
}

// waitFrame blocks until the next frame. A nil or closed channel stops
// the subscription.
func waitFrame(ch <-chan render.Frame) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return frameMsg(f)
	}
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = render.Frame(msg)
		m.frameCount++
		return m, waitFrame(m.frames)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			return m, m.setFocus((m.focus + 1) % focusCount)
		case "shift+tab":
			return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
		case "ctrl+s":
			m.save()
			return m, nil
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m EditorModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.ws.Creatures())
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "enter", "e":
		m.startEdit()
		return m, m.setFocus(focusName)
	case "d", "x", "delete":
		m.remove()
	case "a", "n":
		m.cancel()
		return m, m.setFocus(focusName)
	case "m":
		m.cycleMode()
	case "r":
		if m.ws.Reorganize() {
			m.setStatus(nil, "Reorganizing")
		} else {
			m.setStatus(nil, "Nothing to reorganize yet")
		}
	}
	return m, nil
}

func (m EditorModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submit()
		return m, nil
	case "esc":
		m.cancel()
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// =============================================================================
// Actions
// =============================================================================

func (m *EditorModel) draft() creature.Draft {
	return creature.Draft{
		Name:  m.inputs[focusName].Value(),
		Eats:  m.inputs[focusEats].Value(),
		Color: m.inputs[focusColor].Value(),
	}
}

// loadDraft copies the workspace draft into the form.
func (m *EditorModel) loadDraft() {
	d := m.ws.Snapshot().Draft
	m.inputs[focusName].SetValue(d.Name)
	m.inputs[focusEats].SetValue(d.Eats)
	m.inputs[focusColor].SetValue(d.Color)
}

func (m *EditorModel) submit() {
	draft := m.draft()
	var verb string
	err := m.ws.Edit(m.ctx, func(e *creature.Editor) error {
		e.Draft = draft
		if _, editing := e.Editing(); editing {
			verb = "Updated"
			return e.CommitEdit()
		}
		verb = "Added"
		return e.Add()
	})
	if err != nil {
		m.setStatus(err, "")
		return
	}
	m.loadDraft()
	m.setStatus(nil, "%s %s", verb, strings.TrimSpace(draft.Name))
}

func (m *EditorModel) startEdit() {
	err := m.ws.Edit(m.ctx, func(e *creature.Editor) error { return e.StartEdit(m.cursor) })
	if err != nil {
		m.setStatus(err, "")
		return
	}
	m.loadDraft()
	m.setStatus(nil, "Editing %s", m.inputs[focusName].Value())
}

func (m *EditorModel) cancel() {
	m.ws.Edit(m.ctx, func(e *creature.Editor) error {
		e.CancelEdit()
		return nil
	})
	m.loadDraft()
	m.setStatus(nil, "")
}

func (m *EditorModel) remove() {
	err := m.ws.Edit(m.ctx, func(e *creature.Editor) error { return e.Remove(m.cursor) })
	if err != nil {
		m.setStatus(err, "")
		return
	}
	if n := len(m.ws.Creatures()); m.cursor >= n && m.cursor > 0 {
		m.cursor = n - 1
	}
	m.loadDraft()
	m.setStatus(nil, "Removed")
}

func (m *EditorModel) cycleMode() {
	next := nextMode(m.ws.Settings().Mode)
	if _, err := m.ws.UpdateSettings(m.ctx, layout.WithMode(next)); err != nil {
		m.setStatus(err, "")
		return
	}
	m.setStatus(nil, "Layout mode %s", next)
}

func (m *EditorModel) save() {
	var (
		data []byte
		err  error
	)
	if creature.IsYAML(m.path) {
		data, err = creature.ExportYAML(m.ws.Creatures())
	} else {
		data, err = m.ws.Export()
	}
	if err == nil {
		err = os.WriteFile(m.path, data, 0o644)
	}
	if err != nil {
		m.setStatus(errors.Wrap(errors.ErrCodeInternal, err, "save %s", m.path), "")
		return
	}
	m.setStatus(nil, "Saved %s", m.path)
}

func (m *EditorModel) setFocus(f int) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == f {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *EditorModel) setStatus(err error, format string, args ...any) {
	if err != nil {
		m.status, m.failed = errors.UserMessage(err), true
		return
	}
	m.status, m.failed = fmt.Sprintf(format, args...), false
}

// nextMode returns the mode after cur in display order.
func nextMode(cur layout.Mode) layout.Mode {
	for i, mode := range layout.Modes {
		if mode == cur {
			return layout.Modes[(i+1)%len(layout.Modes)]
		}
	}
	return layout.Modes[0]
}

// =============================================================================
// View
// =============================================================================

func (m EditorModel) View() string {
	snap := m.ws.Snapshot()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Food Web Editor"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("mode %s · %s · %d nodes · %d edges",
		snap.Settings.Mode, snap.State, snap.Graph.NodeCount(), snap.Graph.EdgeCount())))
	b.WriteString("\n\n")

	b.WriteString(m.creatureTable(snap))
	b.WriteString("\n\n")

	heading := "New creature"
	if snap.Editing >= 0 {
		heading = fmt.Sprintf("Editing #%d", snap.Editing+1)
	}
	b.WriteString(StyleValue.Render(heading))
	b.WriteString("\n")
	for i, label := range []string{"Name", "Eats", "Color"} {
		marker := "  "
		if m.focus == i {
			marker = listSelectedStyle.Render("▸ ")
		}
		b.WriteString(marker + labelStyle.Render(label) + m.inputs[i].View() + "\n")
	}
	if snap.Duplicate {
		hint := "  name already taken"
		if strings.TrimSpace(snap.Draft.Name) == "" {
			hint = "  name is required"
		}
		b.WriteString(statusErrStyle.Render(hint) + "\n")
	}
	b.WriteString("\n")

	if m.status != "" {
		style := StyleSuccess
		if m.failed {
			style = statusErrStyle
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	if m.frameCount > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("frame %d (%s)", m.frame.Seq, m.frame.Reason)) + "\n")
	}

	if m.focus == focusList {
		b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ edit  a new  d delete  m mode  r reorganize  ^s save  q quit"))
	} else {
		b.WriteString(listDimStyle.Render("tab next field  ⏎ submit  esc cancel  ^s save  ^c quit"))
	}
	return b.String()
}

func (m EditorModel) creatureTable(snap workspace.Snapshot) string {
	if len(snap.Creatures) == 0 {
		return listDimStyle.Render("  no creatures yet")
	}

	rows := make([][]string, len(snap.Creatures))
	for i, c := range snap.Creatures {
		cursor := "  "
		if i == m.cursor && m.focus == focusList {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, c.Name, c.EatsText(), c.Color}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Eats", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == snap.Editing:
				return lipgloss.NewStyle().Foreground(colorYellow)
			case row == m.cursor && m.focus == focusList:
				return listSelectedStyle
			case col == 3:
				return lipgloss.NewStyle().Foreground(lipgloss.Color(snap.Creatures[row].Color))
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
