package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xfce0/timedesk/internal/app"
	"github.com/xfce0/timedesk/internal/ui/theme"
	"github.com/xfce0/timedesk/internal/ui/views"
)

// RootModel is the top-level bubbletea model. It owns the view stack and
// delegates everything else to the active view.
type RootModel struct {
	app    *app.App
	view   View
	keys   KeyMap
	help   help.Model
	width  int
	height int

	projectsView views.ProjectsView
	panelView    views.PanelView

	statusMsg string
	errorMsg  string
}

// NewRootModel creates the root model
func NewRootModel(a *app.App) RootModel {
	return RootModel{
		app:          a,
		view:         ViewProjects,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		projectsView: views.NewProjectsView(a.DB),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.projectsView.Init()
}

// inputMode reports whether the active view is capturing text. Global
// keybindings are suspended while it is.
func (m RootModel) inputMode() bool {
	switch m.view {
	case ViewPanel:
		return m.panelView.IsInputMode()
	default:
		return m.projectsView.IsInputMode()
	}
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.projectsView = m.projectsView.SetSize(msg.Width, msg.Height)
		m.panelView = m.panelView.SetSize(msg.Width, msg.Height)
		return m, nil

	case views.ProjectOpenedMsg:
		m.view = ViewPanel
		m.panelView = views.NewPanelView(m.app.DB, m.app.Notifier, m.app.Config, msg.Project)
		m.panelView = m.panelView.SetSize(m.width, m.height)
		return m, m.panelView.Init()

	case BackToProjectsMsg:
		m.view = ViewProjects
		return m, m.projectsView.Init()

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.errorMsg = ""
		if !m.inputMode() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(msg, m.keys.Back):
				if m.view == ViewPanel {
					return m.Update(BackToProjectsMsg{})
				}
			}
		}
	}

	var cmd tea.Cmd
	switch m.view {
	case ViewPanel:
		m.panelView, cmd = m.panelView.Update(msg)
	default:
		m.projectsView, cmd = m.projectsView.Update(msg)
	}
	return m, cmd
}

// View renders the application
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var body string
	switch m.view {
	case ViewPanel:
		body = m.panelView.View()
	default:
		body = m.projectsView.View()
	}

	t := theme.Current.Theme
	footer := m.help.View(m.keys)
	if m.errorMsg != "" {
		footer = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg) + "\n" + footer
	} else if m.statusMsg != "" {
		footer = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg) + "\n" + footer
	}

	gap := m.height - lipgloss.Height(body) - lipgloss.Height(footer)
	if gap < 1 {
		gap = 1
	}

	return body + strings.Repeat("\n", gap) + footer
}
