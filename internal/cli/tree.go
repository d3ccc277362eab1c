package cli

import (
	"strings"

	"github.com/inovacc/mornpage/internal/catalog"
	"github.com/inovacc/mornpage/internal/dateutil"
)

// RenderTree draws the catalog below root. Entries carrying today's date
// are highlighted; dated entries get a relative date label.
func RenderTree(root *catalog.Node, clock dateutil.Clock) string {
	if root == nil || len(root.Children) == 0 {
		return dimStyle.Render("No entries yet. Start one with: mornpage today") + "\n"
	}

	var b strings.Builder

	renderChildren(&b, root.Children, "", clock)

	return b.String()
}

func renderChildren(b *strings.Builder, nodes []*catalog.Node, prefix string, clock dateutil.Clock) {
	today := dateutil.Today(clock)

	for i, n := range nodes {
		last := i == len(nodes)-1

		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}

		b.WriteString(dimStyle.Render(prefix + branch))

		if n.Dir {
			b.WriteString(dirStyle.Render(n.Name + "/"))
			b.WriteString("\n")
			renderChildren(b, n.Children, prefix+indent, clock)

			continue
		}

		name := dateutil.TrimExt(n.Name)

		switch {
		case n.Date == today:
			b.WriteString(todayStyle.Render(name))
		default:
			b.WriteString(name)
		}

		if n.Date != "" {
			if label := dateutil.RelativeLabel(n.Date, clock); label != n.Date {
				b.WriteString(dimStyle.Render("  " + label))
			}
		}

		b.WriteString("\n")
	}
}

// RenderList draws files one per line, for search results.
func RenderList(files []*catalog.Node, clock dateutil.Clock) string {
	if len(files) == 0 {
		return dimStyle.Render("No matching entries.") + "\n"
	}

	var b strings.Builder

	for _, f := range files {
		b.WriteString(pathStyle.Render(f.Path))

		if f.Date != "" {
			b.WriteString(dimStyle.Render("  " + dateutil.RelativeLabel(f.Date, clock)))
		}

		b.WriteString("\n")
	}

	return b.String()
}
