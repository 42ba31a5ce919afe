package timetrack

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/xfce0/timedesk/internal/model"
)

// ExportHeader is the fixed export column schema. Spreadsheet consumers
// depend on the header text and column order, so both are contractual.
var ExportHeader = []string{
	"Дата",
	"Пользователь",
	"Задача",
	"Описание",
	"Начало",
	"Окончание",
	"Длительность",
	"Оплачиваемая",
	"Сумма",
}

// ToCSV renders a filtered entry collection as a CSV table: the header
// row plus one row per entry, in input order. Fields are quoted per
// RFC 4180 so free-text descriptions cannot break the column schema.
func ToCSV(entries []model.TimeEntry) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(ExportHeader); err != nil {
		return "", err
	}
	for i := range entries {
		if err := w.Write(exportRecord(&entries[i])); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func exportRecord(e *model.TimeEntry) []string {
	task := "-"
	if e.TaskName != nil && *e.TaskName != "" {
		task = *e.TaskName
	}

	end := "-"
	if !e.EndTime.IsZero() {
		end = e.EndTime.Format("15:04")
	}

	billable := "Нет"
	amount := "-"
	if e.Billable {
		billable = "Да"
		amount = strconv.FormatFloat(e.Amount(), 'f', 2, 64)
	}

	return []string{
		e.Day(),
		e.UserName,
		task,
		e.Description,
		e.StartTime.Format("15:04"),
		end,
		FormatDuration(e.DurationMinutes),
		billable,
		amount,
	}
}
