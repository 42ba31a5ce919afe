package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xfce0/timedesk/internal/config"
	"github.com/xfce0/timedesk/internal/db"
	"github.com/xfce0/timedesk/internal/model"
	"github.com/xfce0/timedesk/internal/notify"
	"github.com/xfce0/timedesk/internal/timetrack"
	"github.com/xfce0/timedesk/internal/ui/theme"
)

// Local message types for the panel view
type panelDataMsg struct {
	entries []model.TimeEntry
	timer   *model.Timer
	err     error
}
type panelTickMsg struct{}
type timerStartedMsg struct{ err error }
type timerStoppedMsg struct {
	entry model.TimeEntry
	err   error
}
type entryDeletedMsg struct{ err error }
type exportDoneMsg struct {
	path string
	err  error
}

// panelMode is the panel's input state
type panelMode int

const (
	modeBrowse panelMode = iota
	modeFilter
	modeStart
)

// Filter input indexes
const (
	filterQuery = iota
	filterFrom
	filterTo
	filterUser
	filterInputCount
)

// tickCmd wakes the panel once per second while a timer runs
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return panelTickMsg{}
	})
}

// PanelView is the time-tracking panel: entry list, filter row, summary
// statistics and the live timer line.
type PanelView struct {
	db       *db.DB
	notifier *notify.Notifier
	cfg      *config.Config
	project  model.Project
	width    int
	height   int

	// Entry collection and derived state. stats and filtered are
	// recomputed on every data or criteria change, never stored.
	entries  []model.TimeEntry
	criteria timetrack.Criteria
	filtered []model.TimeEntry
	stats    timetrack.Stats
	cursor   int

	// Timer session
	controller *timetrack.Controller
	clock      string
	reminded   bool

	mode panelMode

	// Filter form
	filterInputs []textinput.Model
	filterFocus  int

	// Start form
	startInput    textinput.Model
	startBillable bool

	statusMsg string
}

// NewPanelView creates the panel for a project
func NewPanelView(database *db.DB, notifier *notify.Notifier, cfg *config.Config, project model.Project) PanelView {
	inputs := make([]textinput.Model, filterInputCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 80
		inputs[i].Width = 16
	}
	inputs[filterQuery].Placeholder = "поиск"
	inputs[filterQuery].Width = 24
	inputs[filterFrom].Placeholder = "с ГГГГ-ММ-ДД"
	inputs[filterTo].Placeholder = "по ГГГГ-ММ-ДД"
	inputs[filterUser].Placeholder = "пользователь"

	start := textinput.New()
	start.Placeholder = "Над чем работаете?"
	start.CharLimit = 200
	start.Width = 48

	return PanelView{
		db:           database,
		notifier:     notifier,
		cfg:          cfg,
		project:      project,
		controller:   timetrack.NewController(project.ID, time.Now),
		criteria:     timetrack.Criteria{Billable: timetrack.BillableAll},
		filterInputs: inputs,
		startInput:   start,
	}
}

// Init initializes the panel view
func (v PanelView) Init() tea.Cmd {
	return v.loadData()
}

// SetSize sets the view dimensions
func (v PanelView) SetSize(width, height int) PanelView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is capturing text input
func (v PanelView) IsInputMode() bool {
	return v.mode != modeBrowse
}

// loadData fetches the entry collection and the active timer slot
func (v PanelView) loadData() tea.Cmd {
	return func() tea.Msg {
		entries, err := v.db.GetEntries(v.project.ID)
		if err != nil {
			return panelDataMsg{err: err}
		}
		timer, err := v.db.GetActiveTimer(v.project.ID)
		if err != nil {
			return panelDataMsg{err: err}
		}
		return panelDataMsg{entries: entries, timer: timer}
	}
}

// recompute re-derives the filtered view and statistics snapshot
func (v PanelView) recompute() PanelView {
	v.filtered = timetrack.Apply(v.entries, v.criteria)
	v.stats = timetrack.Aggregate(v.filtered)
	if v.cursor >= len(v.filtered) {
		v.cursor = 0
	}
	return v
}

func (v PanelView) startTimer() tea.Cmd {
	draft := model.TimerDraft{
		UserID:      v.cfg.UserName,
		UserName:    v.cfg.UserName,
		Description: v.startInput.Value(),
		Billable:    v.startBillable,
	}
	if draft.Billable {
		draft.HourlyRate = v.cfg.DefaultRate
	}
	controller := v.controller
	database := v.db
	return func() tea.Msg {
		timer, err := controller.Start(draft)
		if err != nil {
			return timerStartedMsg{err: err}
		}
		if err := database.SaveTimer(timer); err != nil {
			// Roll the slot back so controller and storage agree.
			controller.Resume(nil)
			return timerStartedMsg{err: err}
		}
		return timerStartedMsg{}
	}
}

func (v PanelView) stopTimer() tea.Cmd {
	controller := v.controller
	database := v.db
	projectID := v.project.ID
	return func() tea.Msg {
		entry, err := controller.Stop()
		if err != nil {
			return timerStoppedMsg{err: err}
		}
		if err := database.StopTimer(projectID, entry); err != nil {
			// Storage refused the stop: restore the in-memory slot.
			controller.Resume(&model.Timer{
				ProjectID:   entry.ProjectID,
				UserID:      entry.UserID,
				UserName:    entry.UserName,
				TaskID:      entry.TaskID,
				TaskName:    entry.TaskName,
				Description: entry.Description,
				Billable:    entry.Billable,
				HourlyRate:  entry.HourlyRate,
				StartTime:   entry.StartTime,
			})
			return timerStoppedMsg{err: err}
		}
		return timerStoppedMsg{entry: entry}
	}
}

func (v PanelView) deleteEntry() tea.Cmd {
	if len(v.filtered) == 0 {
		return nil
	}
	entryID := v.filtered[v.cursor].ID
	database := v.db
	projectID := v.project.ID
	return func() tea.Msg {
		_, err := database.DeleteEntry(projectID, entryID)
		return entryDeletedMsg{err: err}
	}
}

// exportCSV writes the current filtered view into the exports directory
func (v PanelView) exportCSV() tea.Cmd {
	filtered := v.filtered
	dir := filepath.Join(v.cfg.DataDir, "exports")
	name := fmt.Sprintf("%s-%s.csv", v.project.Name, time.Now().Format("2006-01-02"))
	return func() tea.Msg {
		body, err := timetrack.ToCSV(filtered)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// applyFilterForm reads the filter inputs into criteria
func (v PanelView) applyFilterForm() PanelView {
	c := timetrack.Criteria{
		Query:    v.filterInputs[filterQuery].Value(),
		User:     strings.TrimSpace(v.filterInputs[filterUser].Value()),
		Billable: v.criteria.Billable,
	}
	if raw := strings.TrimSpace(v.filterInputs[filterFrom].Value()); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			c.From = &t
		}
	}
	if raw := strings.TrimSpace(v.filterInputs[filterTo].Value()); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			c.To = &t
		}
	}
	v.criteria = c
	return v.recompute()
}

// cycleBillable advances the tri-state billable filter
func (v PanelView) cycleBillable() PanelView {
	switch v.criteria.Billable {
	case timetrack.BillableOnly:
		v.criteria.Billable = timetrack.BillableNone
	case timetrack.BillableNone:
		v.criteria.Billable = timetrack.BillableAll
	default:
		v.criteria.Billable = timetrack.BillableOnly
	}
	return v.recompute()
}

// Update handles messages
func (v PanelView) Update(msg tea.Msg) (PanelView, tea.Cmd) {
	switch msg := msg.(type) {
	case panelDataMsg:
		if msg.err != nil {
			v.statusMsg = fmt.Sprintf("Ошибка загрузки: %v", msg.err)
			return v, nil
		}
		v.entries = msg.entries
		v.controller.Resume(msg.timer)
		v = v.recompute()
		if msg.timer != nil {
			v.clock = v.controller.Tick(time.Now())
			return v, tickCmd()
		}
		v.clock = ""
		return v, nil

	case panelTickMsg:
		if v.controller.Active() == nil {
			return v, nil
		}
		now := time.Now()
		v.clock = v.controller.Tick(now)
		next, cmd := v.checkReminder(now)
		return next, tea.Batch(cmd, tickCmd())

	case timerStartedMsg:
		if msg.err != nil {
			v.statusMsg = fmt.Sprintf("Таймер не запущен: %v", msg.err)
			return v, nil
		}
		v.statusMsg = "Таймер запущен"
		v.reminded = false
		v.clock = v.controller.Tick(time.Now())
		if timer := v.controller.Active(); timer != nil && v.notifier != nil {
			v.notifier.SendTimerStarted(timer.Description)
		}
		v.startInput.SetValue("")
		return v, tickCmd()

	case timerStoppedMsg:
		if msg.err != nil {
			v.statusMsg = fmt.Sprintf("Таймер не остановлен: %v", msg.err)
			return v, nil
		}
		v.clock = ""
		v.statusMsg = fmt.Sprintf("Записано: %s", timetrack.FormatDuration(msg.entry.DurationMinutes))
		if v.notifier != nil {
			v.notifier.SendTimerStopped(msg.entry.Description, msg.entry.DurationMinutes)
		}
		return v, v.loadData()

	case entryDeletedMsg:
		if msg.err != nil {
			v.statusMsg = fmt.Sprintf("Ошибка удаления: %v", msg.err)
			return v, nil
		}
		v.statusMsg = "Запись удалена"
		return v, v.loadData()

	case exportDoneMsg:
		if msg.err != nil {
			v.statusMsg = fmt.Sprintf("Ошибка экспорта: %v", msg.err)
		} else {
			v.statusMsg = fmt.Sprintf("Экспортировано в %s", msg.path)
		}
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case modeFilter:
			return v.updateFilterForm(msg)
		case modeStart:
			return v.updateStartForm(msg)
		}
		return v.updateBrowse(msg)
	}

	return v, nil
}

func (v PanelView) updateBrowse(msg tea.KeyMsg) (PanelView, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(v.filtered)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "g":
		v.cursor = 0
	case "G":
		if len(v.filtered) > 0 {
			v.cursor = len(v.filtered) - 1
		}
	case "s", " ":
		if v.controller.Active() != nil {
			return v, v.stopTimer()
		}
		v.mode = modeStart
		v.startInput.Focus()
		return v, textinput.Blink
	case "d":
		return v, v.deleteEntry()
	case "/":
		v.mode = modeFilter
		v.filterFocus = filterQuery
		v.filterInputs[filterQuery].Focus()
		return v, textinput.Blink
	case "b":
		v = v.cycleBillable()
	case "e":
		return v, v.exportCSV()
	case "r":
		return v, v.loadData()
	}
	return v, nil
}

func (v PanelView) updateFilterForm(msg tea.KeyMsg) (PanelView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.mode = modeBrowse
		v.filterInputs[v.filterFocus].Blur()
		v = v.applyFilterForm()
		return v, nil
	case "esc":
		v.mode = modeBrowse
		v.filterInputs[v.filterFocus].Blur()
		for i := range v.filterInputs {
			v.filterInputs[i].SetValue("")
		}
		v.criteria = timetrack.Criteria{Billable: v.criteria.Billable}
		return v.recompute(), nil
	case "tab", "shift+tab":
		v.filterInputs[v.filterFocus].Blur()
		if msg.String() == "tab" {
			v.filterFocus = (v.filterFocus + 1) % filterInputCount
		} else {
			v.filterFocus = (v.filterFocus + filterInputCount - 1) % filterInputCount
		}
		v.filterInputs[v.filterFocus].Focus()
		return v, textinput.Blink
	}

	var cmd tea.Cmd
	v.filterInputs[v.filterFocus], cmd = v.filterInputs[v.filterFocus].Update(msg)
	return v, cmd
}

func (v PanelView) updateStartForm(msg tea.KeyMsg) (PanelView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.mode = modeBrowse
		v.startInput.Blur()
		return v, v.startTimer()
	case "esc":
		v.mode = modeBrowse
		v.startInput.Blur()
		v.startInput.SetValue("")
		return v, nil
	case "tab":
		v.startBillable = !v.startBillable
		return v, nil
	}

	var cmd tea.Cmd
	v.startInput, cmd = v.startInput.Update(msg)
	return v, cmd
}

// checkReminder fires a single long-running-timer notification once the
// active timer crosses the configured threshold.
func (v PanelView) checkReminder(now time.Time) (PanelView, tea.Cmd) {
	timer := v.controller.Active()
	if timer == nil || v.reminded || v.notifier == nil || v.cfg.ReminderAfter <= 0 {
		return v, nil
	}
	runningFor := now.Sub(timer.StartTime)
	if runningFor < v.cfg.ReminderAfter {
		return v, nil
	}
	v.reminded = true
	description := timer.Description
	notifier := v.notifier
	return v, func() tea.Msg {
		notifier.SendTimerReminder(description, runningFor)
		return nil
	}
}

// View renders the panel
func (v PanelView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	subtleStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("Учёт времени ─ %s", v.project.Name)))
	sections = append(sections, v.renderTimerLine())
	sections = append(sections, v.renderFilterRow())
	sections = append(sections, v.renderEntries())
	sections = append(sections, v.renderStats())

	if v.statusMsg != "" {
		sections = append(sections, subtleStyle.Render(v.statusMsg))
	}
	sections = append(sections, subtleStyle.Render(
		"s: таймер • /: фильтр • b: оплачиваемые • e: экспорт • d: удалить • esc: назад"))

	return strings.Join(sections, "\n\n")
}

func (v PanelView) renderTimerLine() string {
	t := theme.Current.Theme

	if v.mode == modeStart {
		billable := "нет"
		if v.startBillable {
			billable = "да"
		}
		return fmt.Sprintf("Описание: %s  оплачиваемая (tab): %s", v.startInput.View(), billable)
	}

	timer := v.controller.Active()
	if timer == nil {
		return lipgloss.NewStyle().Foreground(t.Subtle).Render("Таймер не запущен ─ нажмите «s»")
	}

	clockStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	return fmt.Sprintf("%s  %s ─ %s",
		clockStyle.Render(v.clock), timer.Description, timer.TaskLabel())
}

func (v PanelView) renderFilterRow() string {
	t := theme.Current.Theme

	if v.mode == modeFilter {
		return fmt.Sprintf("Фильтр: %s  %s  %s  %s",
			v.filterInputs[filterQuery].View(),
			v.filterInputs[filterFrom].View(),
			v.filterInputs[filterTo].View(),
			v.filterInputs[filterUser].View())
	}

	var parts []string
	if v.criteria.Query != "" {
		parts = append(parts, fmt.Sprintf("поиск: %q", v.criteria.Query))
	}
	if v.criteria.From != nil {
		parts = append(parts, "с "+v.criteria.From.Format("2006-01-02"))
	}
	if v.criteria.To != nil {
		parts = append(parts, "по "+v.criteria.To.Format("2006-01-02"))
	}
	if v.criteria.User != "" && v.criteria.User != "all" {
		parts = append(parts, "пользователь: "+v.criteria.User)
	}
	switch v.criteria.Billable {
	case timetrack.BillableOnly:
		parts = append(parts, "только оплачиваемые")
	case timetrack.BillableNone:
		parts = append(parts, "только неоплачиваемые")
	}

	if len(parts) == 0 {
		return lipgloss.NewStyle().Foreground(t.Subtle).Render("Фильтр не задан")
	}
	return lipgloss.NewStyle().Foreground(t.Info).Render("Фильтр: " + strings.Join(parts, ", "))
}

func (v PanelView) renderEntries() string {
	t := theme.Current.Theme
	subtleStyle := lipgloss.NewStyle().Foreground(t.Subtle)
	selectedStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	if len(v.filtered) == 0 {
		return subtleStyle.Render("Нет записей")
	}

	var lines []string
	for i, e := range v.filtered {
		billable := " "
		if e.Billable {
			billable = "₽"
		}
		line := fmt.Sprintf("%s  %-12s %-20s %-32s %s %s",
			e.Day(), e.UserName, truncate(e.TaskLabel(), 20),
			truncate(e.Description, 32),
			timetrack.FormatDuration(e.DurationMinutes), billable)
		if i == v.cursor {
			lines = append(lines, selectedStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (v PanelView) renderStats() string {
	t := theme.Current.Theme
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)

	var lines []string
	lines = append(lines, headerStyle.Render("Сводка"))
	lines = append(lines, fmt.Sprintf("Всего: %s   Оплачиваемых: %s   Неоплачиваемых: %s",
		valueStyle.Render(fmt.Sprintf("%.1fч", v.stats.TotalHours)),
		valueStyle.Render(fmt.Sprintf("%.1fч", v.stats.BillableHours)),
		valueStyle.Render(fmt.Sprintf("%.1fч", v.stats.NonBillableHours))))
	lines = append(lines, fmt.Sprintf("Сумма: %s   Средняя ставка: %s   Записей: %d",
		valueStyle.Render(fmt.Sprintf("%.2f", v.stats.TotalAmount)),
		valueStyle.Render(fmt.Sprintf("%.2f", v.stats.AvgHourlyRate)),
		v.stats.EntriesCount))

	if len(v.stats.ByUser) > 0 {
		lines = append(lines, "")
		lines = append(lines, v.renderGrouping("По пользователям", v.stats.ByUser, false))
	}
	if len(v.stats.ByTask) > 0 {
		lines = append(lines, v.renderGrouping("По задачам", v.stats.ByTask, false))
	}
	if len(v.stats.ByDay) > 0 {
		lines = append(lines, v.renderGrouping("По дням", v.stats.ByDay, true))
	}

	return strings.Join(lines, "\n")
}

// renderGrouping draws a grouping as scaled bars. Hours descending by
// default; byKey sorts by key descending for chronological groupings.
func (v PanelView) renderGrouping(title string, group map[string]float64, byKey bool) string {
	t := theme.Current.Theme

	keys := make([]string, 0, len(group))
	maxHours := 0.0
	for k, hours := range group {
		keys = append(keys, k)
		if hours > maxHours {
			maxHours = hours
		}
	}
	if byKey {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	} else {
		sort.Slice(keys, func(i, j int) bool {
			if group[keys[i]] != group[keys[j]] {
				return group[keys[i]] > group[keys[j]]
			}
			return keys[i] < keys[j]
		})
	}

	barMaxWidth := 24
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Foreground(t.Secondary).Render(title))
	for _, k := range keys {
		hours := group[k]
		barWidth := 0
		if maxHours > 0 {
			barWidth = int(hours / maxHours * float64(barMaxWidth))
		}
		if barWidth < 1 && hours > 0 {
			barWidth = 1
		}
		bar := lipgloss.NewStyle().Foreground(t.Info).Render(strings.Repeat("█", barWidth))
		lines = append(lines, fmt.Sprintf("%-20s %s %.1fч", truncate(k, 20), bar, hours))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
