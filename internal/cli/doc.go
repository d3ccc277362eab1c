// Package cli provides the terminal user interface components for mornpage.
//
// The package uses [Bubbletea] for the interactive writing surface and
// [Lipgloss] for styling. The writer follows the standard Bubbletea
// Model-View-Update (MVU) architecture; the heatmap and tree renderers are
// plain functions returning strings.
//
// # Components
//
//   - Writer: textarea over the open entry, live character counter, ctrl+s
//     to save, read-only when the entry is locked
//   - Heatmap: a year of activity colored by the earliest hour of each day
//   - Tree: the catalog as an indented folder/file tree
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
// [Lipgloss]: https://github.com/charmbracelet/lipgloss
package cli
