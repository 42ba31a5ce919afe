package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xfce0/timedesk/internal/db"
	"github.com/xfce0/timedesk/internal/model"
	"github.com/xfce0/timedesk/internal/timetrack"
	"github.com/xfce0/timedesk/internal/ui/theme"
)

// Local message types for the projects view
type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}
type projectCreatedMsg struct {
	project *model.Project
	err     error
}

// ProjectOpenedMsg asks the root model to show the time panel
type ProjectOpenedMsg struct {
	Project model.Project
}

// ProjectsView lists projects and opens the time panel for one of them
type ProjectsView struct {
	db     *db.DB
	width  int
	height int

	projects []model.Project
	cursor   int

	// Input mode for creating a project
	adding bool
	input  textinput.Model

	statusMsg string
}

// NewProjectsView creates a new projects view
func NewProjectsView(database *db.DB) ProjectsView {
	ti := textinput.New()
	ti.Placeholder = "Название проекта"
	ti.CharLimit = 120
	ti.Width = 40

	return ProjectsView{
		db:    database,
		input: ti,
	}
}

// Init initializes the projects view
func (v ProjectsView) Init() tea.Cmd {
	return v.loadProjects()
}

// SetSize sets the view dimensions
func (v ProjectsView) SetSize(width, height int) ProjectsView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is capturing text input
func (v ProjectsView) IsInputMode() bool {
	return v.adding
}

func (v ProjectsView) loadProjects() tea.Cmd {
	return func() tea.Msg {
		projects, err := v.db.GetProjects()
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (v ProjectsView) createProject(name string) tea.Cmd {
	return func() tea.Msg {
		p, err := v.db.CreateProject(name)
		return projectCreatedMsg{project: p, err: err}
	}
}

// Update handles messages
func (v ProjectsView) Update(msg tea.Msg) (ProjectsView, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.err != nil {
			v.statusMsg = fmt.Sprintf("Ошибка загрузки: %v", msg.err)
			return v, nil
		}
		v.projects = msg.projects
		if v.cursor >= len(v.projects) {
			v.cursor = 0
		}
		return v, nil

	case projectCreatedMsg:
		if msg.err != nil {
			v.statusMsg = fmt.Sprintf("Ошибка: %v", msg.err)
			return v, nil
		}
		v.statusMsg = fmt.Sprintf("Проект «%s» создан", msg.project.Name)
		return v, v.loadProjects()

	case tea.KeyMsg:
		if v.adding {
			switch msg.String() {
			case "enter":
				name := strings.TrimSpace(v.input.Value())
				v.adding = false
				v.input.Blur()
				v.input.SetValue("")
				if name == "" {
					return v, nil
				}
				return v, v.createProject(name)
			case "esc":
				v.adding = false
				v.input.Blur()
				v.input.SetValue("")
				return v, nil
			}
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}

		switch msg.String() {
		case "j", "down":
			if v.cursor < len(v.projects)-1 {
				v.cursor++
			}
		case "k", "up":
			if v.cursor > 0 {
				v.cursor--
			}
		case "g":
			v.cursor = 0
		case "G":
			if len(v.projects) > 0 {
				v.cursor = len(v.projects) - 1
			}
		case "a":
			v.adding = true
			v.input.Focus()
			return v, textinput.Blink
		case "r":
			return v, v.loadProjects()
		case "enter":
			if len(v.projects) > 0 {
				project := v.projects[v.cursor]
				return v, func() tea.Msg { return ProjectOpenedMsg{Project: project} }
			}
		}
	}

	return v, nil
}

// View renders the projects view
func (v ProjectsView) View() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	subtleStyle := lipgloss.NewStyle().Foreground(t.Subtle)
	selectedStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Проекты"))
	b.WriteString("\n\n")

	if len(v.projects) == 0 {
		b.WriteString(subtleStyle.Render("Нет проектов. Нажмите «a», чтобы создать."))
		b.WriteString("\n")
	}

	for i, p := range v.projects {
		line := fmt.Sprintf("%-30s %4d записей  %s",
			p.Name, p.EntryCount, timetrack.FormatDuration(p.TotalMinutes))
		if i == v.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if v.adding {
		b.WriteString("\n")
		b.WriteString("Новый проект: " + v.input.View())
		b.WriteString("\n")
	}

	if v.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render(v.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render("enter: открыть • a: новый проект • r: обновить • q: выход"))

	return b.String()
}
