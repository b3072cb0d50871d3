// Package report assembles class leaderboards from the cache and exports
// them to object storage.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/coined/internal/cache"
	"github.com/dtroode/coined/internal/logger"
	"github.com/dtroode/coined/internal/model"
	"github.com/dtroode/coined/internal/views"
)

const (
	contentType = "application/json"
	keyPrefix   = "reports/"
)

// Row is one ranked student of a report.
type Row struct {
	Rank  int    `json:"rank"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class,omitempty"`
	Coins int64  `json:"coins"`
}

// Summary holds the balance aggregate of the reported students.
type Summary struct {
	Students int   `json:"students"`
	Total    int64 `json:"total"`
	Average  int64 `json:"average"`
	Top      int64 `json:"top"`
}

// Report is the exported document.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Class       string    `json:"class"`
	Leaderboard []Row     `json:"leaderboard"`
	Aggregate   Summary   `json:"aggregate"`
}

// Build projects the snapshot into a report. An empty class covers the
// whole roster.
func Build(s *cache.Snapshot, class string, at time.Time) Report {
	board := views.Leaderboard(s, class)

	r := Report{
		GeneratedAt: at.UTC(),
		Class:       class,
		Leaderboard: make([]Row, 0, len(board.Entries)),
	}
	if r.Class == "" {
		r.Class = "all"
	}

	students := make([]model.User, 0, len(board.Entries))
	for _, e := range board.Entries {
		r.Leaderboard = append(r.Leaderboard, Row{
			Rank:  e.Rank,
			ID:    e.Student.ID,
			Name:  e.Student.Name,
			Class: e.Student.Class,
			Coins: e.Student.Coins,
		})
		students = append(students, e.Student)
	}

	agg := views.AggregateOf(students)
	r.Aggregate = Summary{Students: agg.Count, Total: agg.Total, Average: agg.Average, Top: agg.Top}
	return r
}

// Key returns the object key a report is stored under.
func Key(r Report) string {
	return fmt.Sprintf("%s%s/%d.json", keyPrefix, r.Class, r.GeneratedAt.Unix())
}

// Exporter uploads reports built from the current snapshot.
type Exporter struct {
	store   *cache.Store
	storage model.Storage
	logger  *logger.Logger
	now     func() time.Time
}

// NewExporter creates an Exporter.
func NewExporter(store *cache.Store, storage model.Storage, logger *logger.Logger) *Exporter {
	return &Exporter{
		store:   store,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Export uploads the report of class and returns its object key. Only a
// signed in teacher may export.
func (e *Exporter) Export(ctx context.Context, class string) (string, error) {
	snap := e.store.Snapshot()
	if err := authorize(snap); err != nil {
		return "", err
	}

	r := Build(snap, class, e.now())
	key := Key(r)

	e.logger.Debug("Report: exporting", "class", r.Class, "students", len(r.Leaderboard))

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	if err := e.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		e.logger.Error("Report: upload failed", "key", key, "error", err)
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	e.logger.Info("Report: exported", "key", key)
	return key, nil
}

// List returns the stored reports of class, or of every class when class
// is empty.
func (e *Exporter) List(ctx context.Context, class string) ([]model.StoredObject, error) {
	if err := authorize(e.store.Snapshot()); err != nil {
		return nil, err
	}

	prefix := keyPrefix
	if class != "" {
		prefix += class + "/"
	}

	objects, err := e.storage.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return objects, nil
}

// Open downloads and decodes the report stored under key.
func (e *Exporter) Open(ctx context.Context, key string) (Report, error) {
	if err := e.lookup(ctx, key); err != nil {
		return Report{}, err
	}

	rc, err := e.storage.Download(ctx, key)
	if err != nil {
		return Report{}, fmt.Errorf("failed to download report: %w", err)
	}
	defer rc.Close()

	var r Report
	if err := json.NewDecoder(rc).Decode(&r); err != nil {
		return Report{}, fmt.Errorf("failed to decode report %s: %w", key, err)
	}
	return r, nil
}

// Delete removes the report stored under key.
func (e *Exporter) Delete(ctx context.Context, key string) error {
	if err := e.lookup(ctx, key); err != nil {
		return err
	}

	if err := e.storage.Delete(ctx, key); err != nil {
		e.logger.Error("Report: delete failed", "key", key, "error", err)
		return fmt.Errorf("failed to delete report: %w", err)
	}

	e.logger.Info("Report: deleted", "key", key)
	return nil
}

// lookup checks that the caller may read reports and that key names an
// existing one.
func (e *Exporter) lookup(ctx context.Context, key string) error {
	if err := authorize(e.store.Snapshot()); err != nil {
		return err
	}
	if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, ".json") {
		return model.NewError(model.ErrValidation, fmt.Sprintf("%q is not a report key", key))
	}

	ok, err := e.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to look up report: %w", err)
	}
	if !ok {
		return model.NewError(model.ErrNotFound, "Report not found")
	}
	return nil
}

func authorize(snap *cache.Snapshot) error {
	me, ok := snap.CurrentUser()
	if !ok {
		return model.NewError(model.ErrNoSession, "Please log in first")
	}
	if !me.IsTeacher() {
		return model.NewError(model.ErrForbidden, "Only a teacher can manage reports")
	}
	return nil
}
