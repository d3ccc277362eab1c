package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inovacc/mornpage/internal/activity"
	"github.com/inovacc/mornpage/internal/catalog"
	"github.com/inovacc/mornpage/internal/dateutil"
	"github.com/inovacc/mornpage/internal/editor"
	"github.com/inovacc/mornpage/internal/gateway"
	"github.com/inovacc/mornpage/internal/model"
)

// ContentChecker rejects content that must not be pushed.
type ContentChecker interface {
	Check(path, content string) error
}

// JournalOptions configures a Journal.
type JournalOptions struct {
	Config model.Config
	Clock  dateutil.Clock

	// Checker runs before every save when Config.ScanSecrets is set
	Checker ContentChecker
	Logger  *slog.Logger
}

// Journal ties the catalog, the editor and the activity index to one
// gateway and runs the flows between them.
type Journal struct {
	Catalog  *catalog.Catalog
	Editor   *editor.Editor
	Activity *activity.Index

	clock   dateutil.Clock
	checker ContentChecker
	logger  *slog.Logger
	record  activity.Record
}

// NewJournal wires the components around gw.
func NewJournal(gw gateway.Gateway, opts JournalOptions) *Journal {
	if opts.Clock == nil {
		opts.Clock = dateutil.SystemClock{}
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	j := &Journal{
		Catalog: catalog.New(gw, opts.Clock, opts.Logger),
		Editor: editor.NewEditor(gw, opts.Clock, editor.Options{
			CommitPrefix: opts.Config.CommitPrefix,
			Logger:       opts.Logger,
		}),
		Activity: activity.New(gw, opts.Clock, opts.Config.ActivityMarkers, opts.Logger),
		clock:    opts.Clock,
		logger:   opts.Logger,
	}

	if opts.Config.ScanSecrets {
		j.checker = opts.Checker
	}

	return j
}

// Start refreshes the catalog and opens today's entry.
func (j *Journal) Start(ctx context.Context) (string, error) {
	if _, err := j.Catalog.Refresh(ctx); err != nil {
		return "", err
	}

	return j.OpenToday(ctx)
}

// TodayPath is the latest cataloged entry for today, or YYYY-MM-DD.md when
// there is none yet.
func (j *Journal) TodayPath() string {
	today := dateutil.Today(j.clock)

	if path, ok := j.Catalog.LatestEntryForDate(today); ok {
		return path
	}

	return today + model.EntryExt
}

// OpenToday opens TodayPath in the editor.
func (j *Journal) OpenToday(ctx context.Context) (string, error) {
	path := j.TodayPath()

	if err := j.Editor.Open(ctx, path); err != nil {
		return "", err
	}

	return path, nil
}

// Save checks and persists the open entry, then refreshes the catalog and
// the activity of the current year. Refresh failures are logged only.
func (j *Journal) Save(ctx context.Context) (*gateway.WriteResult, error) {
	if j.checker != nil && j.Editor.CanSave() {
		entry := j.Editor.Entry()
		if err := j.checker.Check(entry.Path, entry.Content); err != nil {
			return nil, err
		}
	}

	res, err := j.Editor.Save(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := j.Catalog.Refresh(ctx); err != nil {
		j.logger.Warn("catalog refresh after save failed", slog.String("error", err.Error()))
	}

	if _, err := j.BuildActivity(ctx, j.clock.Now().Year()); err != nil {
		j.logger.Warn("activity refresh after save failed", slog.String("error", err.Error()))
	}

	return res, nil
}

// BuildActivity rebuilds and caches the activity record of year.
func (j *Journal) BuildActivity(ctx context.Context, year int) (activity.Record, error) {
	rec, err := j.Activity.BuildForYear(ctx, year)
	if err != nil {
		return nil, err
	}

	j.record = rec

	return rec, nil
}

// Record returns the last built activity record, nil before the first build.
func (j *Journal) Record() activity.Record {
	return j.record
}

// SaveContent opens path, replaces its content and saves it in one step,
// for non-interactive use.
func (j *Journal) SaveContent(ctx context.Context, path, content string) (*gateway.WriteResult, error) {
	if _, err := j.Catalog.Refresh(ctx); err != nil {
		return nil, err
	}

	if err := j.Editor.Open(ctx, path); err != nil {
		return nil, err
	}

	if err := j.Editor.Edit(content); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return j.Save(ctx)
}
