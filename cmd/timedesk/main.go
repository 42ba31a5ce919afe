package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xfce0/timedesk/internal/app"
	"github.com/xfce0/timedesk/internal/config"
	"github.com/xfce0/timedesk/internal/db"
	"github.com/xfce0/timedesk/internal/model"
	"github.com/xfce0/timedesk/internal/server"
	"github.com/xfce0/timedesk/internal/timetrack"
	"github.com/xfce0/timedesk/internal/ui"
)

var (
	version = "0.1.0"
)

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			handleServe(os.Args[2:])
			return
		case "export":
			handleExport(os.Args[2:])
			return
		case "report":
			handleReport(os.Args[2:])
			return
		case "version":
			fmt.Printf("timedesk v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	flag.Parse()

	// Run TUI
	if err := runTUI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `timedesk - time tracking for freelance projects

Usage:
  timedesk                           Start the TUI
  timedesk serve [--addr host:port]  Start the HTTP API
  timedesk export <project> [flags]  Print a CSV report
  timedesk report <project> [flags]  Print a statistics summary
  timedesk version                   Show version
  timedesk help                      Show this help

Export and report flags:
  --q <text>        Filter by description or task substring
  --from <date>     Only entries on or after the date (YYYY-MM-DD)
  --to <date>       Only entries on or before the date (YYYY-MM-DD)
  --user <name>     Filter by user name
  --billable <v>    all, billable or non-billable

Keybindings (TUI):
  Navigation:   ↑/↓ or j/k    Move cursor
                g/G           Go to top/bottom

  Panel:        s/space       Start or stop the timer
                /             Filter entries
                b             Cycle the billable filter
                e             Export the current view to CSV
                d             Delete entry
                r             Refresh

  General:      ?             Help
                esc           Back
                q             Quit`

	fmt.Println(help)
}

func runTUI() error {
	application, err := app.New(nil)
	if err != nil {
		return err
	}
	defer application.Close()

	p := tea.NewProgram(ui.NewRootModel(application), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func handleServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "Listen address (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	srv := server.NewServer(server.NewService(application.DB), cfg.ListenAddr)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-done
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	fmt.Printf("timedesk listening on %s\n", cfg.ListenAddr)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// reportQuery is the shared flag surface of export and report
type reportQuery struct {
	project  string
	criteria timetrack.Criteria
}

func parseReportQuery(name string, args []string) (reportQuery, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	query := fs.String("q", "", "Description or task substring")
	from := fs.String("from", "", "Start date (YYYY-MM-DD)")
	to := fs.String("to", "", "End date (YYYY-MM-DD)")
	user := fs.String("user", "", "User name")
	billable := fs.String("billable", "all", "all, billable or non-billable")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return reportQuery{}, fmt.Errorf("usage: timedesk %s <project> [flags]", name)
	}

	q := reportQuery{
		project: strings.Join(fs.Args(), " "),
		criteria: timetrack.Criteria{
			Query: *query,
			User:  *user,
		},
	}

	switch timetrack.BillableFilter(*billable) {
	case timetrack.BillableAll, timetrack.BillableOnly, timetrack.BillableNone:
		q.criteria.Billable = timetrack.BillableFilter(*billable)
	default:
		return reportQuery{}, fmt.Errorf("invalid --billable value %q", *billable)
	}

	if *from != "" {
		t, err := time.Parse("2006-01-02", *from)
		if err != nil {
			return reportQuery{}, fmt.Errorf("invalid --from date %q", *from)
		}
		q.criteria.From = &t
	}
	if *to != "" {
		t, err := time.Parse("2006-01-02", *to)
		if err != nil {
			return reportQuery{}, fmt.Errorf("invalid --to date %q", *to)
		}
		q.criteria.To = &t
	}

	return q, nil
}

// resolveProject matches by ID first, then by exact name.
func resolveProject(database *db.DB, ref string) (*model.Project, error) {
	projects, err := database.GetProjects()
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == ref {
			return &projects[i], nil
		}
	}
	for i := range projects {
		if projects[i].Name == ref {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %q not found", ref)
}

// filteredEntries opens the database directly: reports are read-only and
// do not need the single-instance lock.
func filteredEntries(q reportQuery) ([]model.TimeEntry, *model.Project, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	defer database.Close()

	project, err := resolveProject(database, q.project)
	if err != nil {
		return nil, nil, err
	}
	entries, err := database.GetEntries(project.ID)
	if err != nil {
		return nil, nil, err
	}
	return timetrack.Apply(entries, q.criteria), project, nil
}

func handleExport(args []string) {
	q, err := parseReportQuery("export", args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	entries, _, err := filteredEntries(q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	body, err := timetrack.ToCSV(entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(body)
}

func handleReport(args []string) {
	q, err := parseReportQuery("report", args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	entries, project, err := filteredEntries(q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stats := timetrack.Aggregate(entries)
	fmt.Printf("Проект: %s\n", project.Name)
	fmt.Printf("Всего часов:          %.1f\n", stats.TotalHours)
	fmt.Printf("Оплачиваемых часов:   %.1f\n", stats.BillableHours)
	fmt.Printf("Неоплачиваемых часов: %.1f\n", stats.NonBillableHours)
	fmt.Printf("Сумма:                %.2f\n", stats.TotalAmount)
	fmt.Printf("Средняя ставка:       %.2f\n", stats.AvgHourlyRate)
	fmt.Printf("Записей:              %d\n", stats.EntriesCount)

	printGroup := func(title string, group map[string]float64) {
		if len(group) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", title)
		for k, hours := range group {
			fmt.Printf("  %-24s %.1fч\n", k, hours)
		}
	}
	printGroup("По пользователям", stats.ByUser)
	printGroup("По задачам", stats.ByTask)
	printGroup("По дням", stats.ByDay)
}
