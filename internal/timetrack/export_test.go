package timetrack

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xfce0/timedesk/internal/model"
)

func exportFixture() []model.TimeEntry {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	return []model.TimeEntry{
		{
			ID: "e1", UserName: "Анна", TaskName: strptr("Лендинг"),
			Description: "Вёрстка главной",
			StartTime:   day, EndTime: day.Add(210 * time.Minute),
			DurationMinutes: 210, Billable: true, HourlyRate: 60,
		},
		{
			ID: "e2", UserName: "Борис",
			Description: "Созвон, планирование", // embedded comma
			StartTime:   day.Add(5 * time.Hour), EndTime: day.Add(5*time.Hour + 90*time.Minute),
			DurationMinutes: 90, Billable: false, HourlyRate: 60,
		},
	}
}

func TestToCSVShape(t *testing.T) {
	out, err := ToCSV(exportFixture())
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("export has %d lines, want 3 (header + 2 rows)", len(lines))
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	for i, rec := range records {
		if len(rec) != len(ExportHeader) {
			t.Errorf("row %d has %d columns, want %d", i, len(rec), len(ExportHeader))
		}
	}
}

func TestToCSVHeader(t *testing.T) {
	out, err := ToCSV(nil)
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}

	want := "Дата,Пользователь,Задача,Описание,Начало,Окончание,Длительность,Оплачиваемая,Сумма\n"
	if out != want {
		t.Errorf("header = %q, want %q", out, want)
	}
}

func TestToCSVRows(t *testing.T) {
	out, err := ToCSV(exportFixture())
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	billableRow := records[1]
	wantBillable := []string{
		"2025-03-10", "Анна", "Лендинг", "Вёрстка главной",
		"09:00", "12:30", "3ч 30м", "Да", "210.00",
	}
	for i, want := range wantBillable {
		if billableRow[i] != want {
			t.Errorf("billable row col %d = %q, want %q", i, billableRow[i], want)
		}
	}

	nonBillableRow := records[2]
	if nonBillableRow[2] != "-" {
		t.Errorf("task col = %q, want - for task-less entry", nonBillableRow[2])
	}
	if nonBillableRow[7] != "Нет" {
		t.Errorf("billable col = %q, want Нет", nonBillableRow[7])
	}
	if nonBillableRow[8] != "-" {
		t.Errorf("amount col = %q, want - for non-billable entry", nonBillableRow[8])
	}
	// The comma inside the description must not add a column.
	if nonBillableRow[3] != "Созвон, планирование" {
		t.Errorf("description col = %q", nonBillableRow[3])
	}
}

func TestToCSVPreservesOrder(t *testing.T) {
	entries := exportFixture()
	out, err := ToCSV(entries)
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}

	records, _ := csv.NewReader(strings.NewReader(out)).ReadAll()
	if records[1][1] != "Анна" || records[2][1] != "Борис" {
		t.Errorf("rows out of order: %v", records)
	}
}
