// Package editor holds the lifecycle of the entry open for writing.
//
//	Empty ──Open/CreateNamed──▶ New ⇄ Editing ──Save (day over)──▶ Locked
//	                  Open (historical entry) ───────────────────────▲
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inovacc/mornpage/internal/catalog"
	"github.com/inovacc/mornpage/internal/dateutil"
	"github.com/inovacc/mornpage/internal/gateway"
	"github.com/inovacc/mornpage/internal/model"
)

// MinCharacters is the non-whitespace length a dated entry needs to be saved.
const MinCharacters = 1000

// State of the editor.
type State int

const (
	Empty State = iota
	New
	Editing
	Locked
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case New:
		return "new"
	case Editing:
		return "editing"
	case Locked:
		return "locked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures an Editor.
type Options struct {
	// CommitPrefix starts every commit message, default model.DefaultCommitPrefix
	CommitPrefix string
	Logger       *slog.Logger
}

// Editor is the state machine of one open entry. It is not safe for
// concurrent use.
type Editor struct {
	gw     gateway.Gateway
	clock  dateutil.Clock
	prefix string
	logger *slog.Logger

	state State
	entry model.Entry
	saved string
}

// NewEditor returns an Editor in the Empty state.
func NewEditor(gw gateway.Gateway, clock dateutil.Clock, opts Options) *Editor {
	if clock == nil {
		clock = dateutil.SystemClock{}
	}

	if opts.CommitPrefix == "" {
		opts.CommitPrefix = model.DefaultCommitPrefix
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Editor{gw: gw, clock: clock, prefix: opts.CommitPrefix, logger: opts.Logger}
}

// State returns the current state.
func (e *Editor) State() State { return e.state }

// Entry returns a copy of the open entry.
func (e *Editor) Entry() model.Entry { return e.entry }

// Open loads path. A missing file opens as New; an existing one as Editing
// or Locked depending on whether it is still same-day editable. On error
// the previous state is kept.
func (e *Editor) Open(ctx context.Context, path string) error {
	f, err := e.gw.ReadFile(ctx, path)
	if errors.Is(err, gateway.ErrNotFound) {
		e.load(model.Entry{Path: path}, New)
		return nil
	}

	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	entry := model.Entry{Path: path, Content: f.Content, ConcurrencyToken: f.SHA}

	commit, err := e.gw.LastCommitFor(ctx, path)

	switch {
	case err == nil:
		entry.LastModifiedAt = commit.Timestamp
	case errors.Is(err, gateway.ErrNotFound):
	default:
		return fmt.Errorf("open %s: %w", path, err)
	}

	state := Locked
	if catalog.IsEditable(path, e.clock) {
		state = contentState(entry.Content)
	}

	e.load(entry, state)

	e.logger.Debug("entry opened", slog.String("path", path), slog.String("state", state.String()))

	return nil
}

func (e *Editor) load(entry model.Entry, state State) {
	e.entry = entry
	e.saved = entry.Content
	e.state = state
}

func contentState(content string) State {
	if content == "" {
		return New
	}

	return Editing
}

// Edit replaces the in-memory content.
func (e *Editor) Edit(text string) error {
	switch e.state {
	case Empty:
		return ErrNoEntry
	case Locked:
		return ErrLocked
	}

	e.entry.Content = text
	e.state = contentState(text)

	return nil
}

// Save writes the entry. A dated entry shorter than MinCharacters fails
// with *ValidationError. On failure nothing changes.
func (e *Editor) Save(ctx context.Context) (*gateway.WriteResult, error) {
	switch e.state {
	case Empty:
		return nil, ErrNoEntry
	case Locked:
		return nil, ErrLocked
	}

	if err := e.validate(); err != nil {
		return nil, err
	}

	path := e.entry.Path

	res, err := e.gw.WriteFile(ctx, path, e.entry.Content, e.CommitMessage())
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", path, err)
	}

	e.entry.ConcurrencyToken = res.SHA
	e.entry.LastModifiedAt = e.clock.Now()
	e.saved = e.entry.Content

	if catalog.IsEditable(path, e.clock) {
		e.state = Editing
	} else {
		e.state = Locked
	}

	e.logger.Info("entry saved",
		slog.String("path", path),
		slog.Int("characters", dateutil.CountCharacters(e.entry.Content)),
		slog.String("state", e.state.String()),
	)

	return res, nil
}

func (e *Editor) validate() error {
	if !isDated(e.entry.Path) {
		return nil
	}

	if n := dateutil.CountCharacters(e.entry.Content); n < MinCharacters {
		return &ValidationError{Path: e.entry.Path, Count: n, Min: MinCharacters}
	}

	return nil
}

// isDated looks at the whole path, so entries under a dated folder are gated
// too.
func isDated(path string) bool {
	_, ok := dateutil.ExtractDate(path)
	return ok
}

// CommitMessage is the message used when saving the open entry.
func (e *Editor) CommitMessage() string {
	return fmt.Sprintf("%s: %s", e.prefix, e.entry.Path)
}

// CreateNamed derives an entry path from free text and opens it as a new,
// empty entry:
//
//	""              -> 2025-01-27.md
//	"notes.md"      -> notes.md
//	"2025/09/"      -> 2025/09/2025-01-27.md
//	"2025/09/ideas" -> 2025/09/2025-01-27 ideas.md
//	"draft"         -> 2025-01-27 draft.md
func (e *Editor) CreateNamed(raw string) string {
	path := DerivePath(raw, dateutil.Today(e.clock))
	e.load(model.Entry{Path: path}, New)

	return path
}

// DerivePath applies the CreateNamed rules for the given date.
func DerivePath(raw, today string) string {
	raw = strings.TrimSpace(raw)

	switch {
	case raw == "":
		return today + model.EntryExt
	case strings.HasSuffix(raw, model.EntryExt):
		return raw
	case strings.HasSuffix(raw, "/"):
		return raw + today + model.EntryExt
	}

	if i := strings.LastIndex(raw, "/"); i >= 0 {
		return raw[:i+1] + today + " " + raw[i+1:] + model.EntryExt
	}

	return today + " " + raw + model.EntryExt
}

// Characters is the non-whitespace length of the content.
func (e *Editor) Characters() int {
	return dateutil.CountCharacters(e.entry.Content)
}

// Remaining is how many more characters a dated entry needs before it can
// be saved. Undated entries always report 0.
func (e *Editor) Remaining() int {
	if !isDated(e.entry.Path) {
		return 0
	}

	return max(0, MinCharacters-e.Characters())
}

// CanSave reports whether Save would pass the state and length checks.
func (e *Editor) CanSave() bool {
	return (e.state == New || e.state == Editing) && e.validate() == nil
}

// Dirty reports whether the content differs from what was loaded or saved.
func (e *Editor) Dirty() bool {
	return e.entry.Content != e.saved
}

// Snapshot is a read-only view for rendering.
type Snapshot struct {
	State          State     `json:"-"`
	StateName      string    `json:"state"`
	Path           string    `json:"path"`
	Content        string    `json:"-"`
	Characters     int       `json:"characters"`
	Remaining      int       `json:"remaining"`
	CanSave        bool      `json:"can_save"`
	Dirty          bool      `json:"dirty"`
	LastModifiedAt time.Time `json:"last_modified_at,omitzero"`
}

// Snapshot captures the current editor state.
func (e *Editor) Snapshot() Snapshot {
	return Snapshot{
		State:          e.state,
		StateName:      e.state.String(),
		Path:           e.entry.Path,
		Content:        e.entry.Content,
		Characters:     e.Characters(),
		Remaining:      e.Remaining(),
		CanSave:        e.CanSave(),
		Dirty:          e.Dirty(),
		LastModifiedAt: e.entry.LastModifiedAt,
	}
}
