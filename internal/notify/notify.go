package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/xfce0/timedesk/internal/timetrack"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{
		enabled: true,
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "timedesk")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	cmd := exec.Command("notify-send", args...)
	return cmd.Run()
}

// SendSimple sends a simple notification with title and body
func (n *Notifier) SendSimple(title, body string) error {
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}

// SendTimerStarted notifies that a timer began tracking
func (n *Notifier) SendTimerStarted(description string) error {
	return n.Send(Notification{
		Title:   "Таймер запущен",
		Body:    description,
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "chronometer-start",
	})
}

// SendTimerStopped notifies about the recorded duration after a stop
func (n *Notifier) SendTimerStopped(description string, minutes int) error {
	return n.Send(Notification{
		Title:   "Таймер остановлен",
		Body:    fmt.Sprintf("%s — %s", description, timetrack.FormatDuration(minutes)),
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "chronometer",
	})
}

// SendTimerReminder reminds that a timer has been running for a long time
func (n *Notifier) SendTimerReminder(description string, runningFor time.Duration) error {
	return n.Send(Notification{
		Title:   "Таймер всё ещё идёт",
		Body:    fmt.Sprintf("%s — уже %s", description, timetrack.FormatDuration(int(runningFor.Minutes()))),
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "appointment-soon-symbolic",
	})
}
