package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dirStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	badgeStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	// heatmap cells, by time of day of the earliest entry
	emptyCellStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	morningCellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4caf50"))
	afternoonCellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc107"))
	eveningCellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9800"))
)
