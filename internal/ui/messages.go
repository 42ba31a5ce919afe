package ui

// View represents the current active view
type View int

const (
	ViewProjects View = iota
	ViewPanel
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewProjects:
		return "Projects"
	case ViewPanel:
		return "Time Tracking"
	default:
		return "Unknown"
	}
}

// Messages for inter-component communication

// BackToProjectsMsg requests returning to the project list
type BackToProjectsMsg struct{}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}
