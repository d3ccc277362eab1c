// Package catalog keeps the in-memory tree of journal entries rebuilt from
// the repository on every refresh.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/inovacc/mornpage/internal/dateutil"
	"github.com/inovacc/mornpage/internal/gateway"
	"github.com/inovacc/mornpage/internal/model"
)

// Node is a file or directory of the catalog tree.
type Node struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Dir  bool   `json:"dir,omitempty"`

	// Date is the calendar date embedded in a file name, if any
	Date     string  `json:"date,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Walk visits every file node below n in tree order.
func (n *Node) Walk(fn func(file *Node)) {
	if n == nil {
		return
	}

	if !n.Dir {
		fn(n)
		return
	}

	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Stats summarizes the cataloged entries.
type Stats struct {
	Total     int `json:"total"`
	ThisMonth int `json:"this_month"`
}

// Catalog is the snapshot of journal entries in the repository. Readers
// always see a complete snapshot: Refresh swaps it only on success.
type Catalog struct {
	gw     gateway.Gateway
	clock  dateutil.Clock
	logger *slog.Logger

	mu          sync.RWMutex
	root        *Node
	paths       []string
	refreshedAt time.Time
}

// New creates an empty catalog reading from gw.
func New(gw gateway.Gateway, clock dateutil.Clock, logger *slog.Logger) *Catalog {
	if clock == nil {
		clock = dateutil.SystemClock{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Catalog{
		gw:     gw,
		clock:  clock,
		logger: logger,
		root:   &Node{Dir: true},
	}
}

// Refresh rebuilds the tree from the repository root. On failure the
// previous snapshot is kept and a single wrapped error is returned.
func (c *Catalog) Refresh(ctx context.Context) (*Node, error) {
	root := &Node{Dir: true}

	if err := c.walk(ctx, root); err != nil {
		return nil, fmt.Errorf("refresh catalog: %w", err)
	}

	var paths []string

	root.Walk(func(f *Node) { paths = append(paths, f.Path) })

	c.mu.Lock()
	c.root = root
	c.paths = paths
	c.refreshedAt = c.clock.Now()
	c.mu.Unlock()

	c.logger.Debug("catalog refreshed", slog.Int("entries", len(paths)))

	return root, nil
}

func (c *Catalog) walk(ctx context.Context, dir *Node) error {
	entries, err := c.gw.ListDirectory(ctx, dir.Path)
	if err != nil {
		// an empty repository has no root listing
		if dir.Path == "" && errors.Is(err, gateway.ErrNotFound) {
			return nil
		}

		return err
	}

	for _, e := range entries {
		switch e.Type {
		case gateway.TypeDirectory:
			sub := &Node{Name: e.Name, Path: e.Path, Dir: true}
			if err := c.walk(ctx, sub); err != nil {
				return err
			}

			if len(sub.Children) > 0 {
				dir.Children = append(dir.Children, sub)
			}
		case gateway.TypeFile:
			if !model.IsEntryPath(e.Name) {
				continue
			}

			date, _ := dateutil.ExtractDate(e.Name)
			dir.Children = append(dir.Children, &Node{Name: e.Name, Path: e.Path, Date: date})
		}
	}

	sortChildren(dir.Children)

	return nil
}

func sortChildren(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Dir != nodes[j].Dir {
			return nodes[i].Dir
		}

		return nodes[i].Name < nodes[j].Name
	})
}

// Tree returns the current snapshot root. Callers must not mutate it.
func (c *Catalog) Tree() *Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.root
}

// RefreshedAt is the time of the last successful refresh, zero if none.
func (c *Catalog) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.refreshedAt
}

// LatestEntryForDate returns the lexicographically greatest cataloged path
// containing date. Lexicographic order stands in for "latest" among
// same-day entries; it is not chronological for arbitrary suffixes.
func (c *Catalog) LatestEntryForDate(date string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	best := ""

	for _, p := range c.paths {
		if strings.Contains(p, date) && p > best {
			best = p
		}
	}

	return best, best != ""
}

// IsEditable reports whether path may still be written today.
func (c *Catalog) IsEditable(path string) bool {
	return IsEditable(path, c.clock)
}

// IsEditable is true when the file name of path carries no calendar date,
// or carries the current local date of clock.
func IsEditable(path string, clock dateutil.Clock) bool {
	date, ok := dateutil.ExtractDate(model.BaseName(path))
	if !ok {
		return true
	}

	return date == dateutil.Today(clock)
}

// Exists reports whether path is in the current snapshot.
func (c *Catalog) Exists(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.paths {
		if p == path {
			return true
		}
	}

	return false
}

// Files returns every cataloged file, newest embedded date first. Undated
// files follow, ordered by path.
func (c *Catalog) Files() []*Node {
	var files []*Node

	c.Tree().Walk(func(f *Node) { files = append(files, f) })

	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]

		switch {
		case a.Date != b.Date && a.Date != "" && b.Date != "":
			return a.Date > b.Date
		case a.Date == "" && b.Date != "":
			return false
		case a.Date != "" && b.Date == "":
			return true
		case a.Date == "":
			return a.Path < b.Path
		default:
			return a.Path > b.Path
		}
	})

	return files
}

// Search returns files whose name contains query, case-insensitively, in
// Files order. An empty query returns every file.
func (c *Catalog) Search(query string) []*Node {
	files := c.Files()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return files
	}

	matched := files[:0]

	for _, f := range files {
		if strings.Contains(strings.ToLower(f.Name), query) {
			matched = append(matched, f)
		}
	}

	return matched
}

// Stats counts all entries and the entries dated in the current month.
func (c *Catalog) Stats() Stats {
	month := c.clock.Now().Format("2006-01")

	var s Stats

	c.Tree().Walk(func(f *Node) {
		s.Total++

		if strings.HasPrefix(f.Date, month) {
			s.ThisMonth++
		}
	})

	return s
}
