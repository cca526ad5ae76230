// Package fulfil runs an order export end to end: aggregate, resolve every
// order, then download its artwork or only verify that it exists.
package fulfil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blorders/internal/artwork"
	"blorders/internal/classify"
	"blorders/internal/journal"
	"blorders/internal/manifest"
	"blorders/internal/metrics"
	"blorders/internal/order"
	"blorders/internal/resolve"
	"blorders/internal/runlog"
	"blorders/internal/sku"
)

var now = time.Now

// RunRootPrefix names run directories: "<prefix> - <stamp>".
const RunRootPrefix = "Baselinker"

// Summary is the outcome of a run.
type Summary struct {
	RunID              string   `json:"runId"`
	RunRoot            string   `json:"runRoot"`
	OrderCount         int      `json:"orderCount"`
	ResolvedCount      int      `json:"resolvedCount"`
	DownloadedCount    int      `json:"downloadedCount"`
	MissingDesignCodes []string `json:"missingDesignCodes"`
	SkippedRows        int      `json:"skippedRows"`
}

type Deps struct {
	Store      artwork.Store
	Normalizer *sku.Normalizer
	Scopes     resolve.Scopes
	MaxDepth   int
	// Journal and Manifest receive events and the run manifest in addition
	// to the files written below the run root. Both may be nil.
	Journal  journal.Writer
	Manifest manifest.Publisher
	Metrics  *metrics.Registry
	Logger   *zap.Logger
}

type Options struct {
	Download bool
	// OutputDir holds the run roots. Ignored when RunRoot is set.
	OutputDir string
	// RunRoot reuses an existing run directory; with Resume, orders already
	// downloaded there are skipped.
	RunRoot string
	Resume  bool
}

type Driver struct {
	d        Deps
	classify *classify.Classifier
	log      *zap.Logger
}

func New(d Deps) *Driver {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewRegistry()
	}
	return &Driver{d: d, classify: classify.New(d.Normalizer), log: d.Logger}
}

// Run processes one order export. Only startup failures are returned: an
// unreachable store, an unreadable CSV or an unusable run directory. Every
// per-order failure is logged and counted.
func (dr *Driver) Run(ctx context.Context, csvPath string, opts Options) (Summary, error) {
	if p, ok := dr.d.Store.(artwork.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return Summary{}, fmt.Errorf("remote store unreachable: %w", err)
		}
	}

	started := now()
	stamp := runlog.Stamp(started)
	root := opts.RunRoot
	if root == "" {
		root = filepath.Join(opts.OutputDir, fmt.Sprintf("%s - %s", RunRootPrefix, stamp))
	}
	logsDir := filepath.Join(root, "logs")
	errLog := runlog.New(logsDir, "error_log", stamp, dr.log)
	searchLog := runlog.NewSearchLog(logsDir, stamp, dr.log)

	rows, skipped, err := order.ReadFile(csvPath)
	if err != nil {
		return Summary{}, err
	}
	for _, pe := range skipped {
		errLog.Printf("Skipped row %v", pe)
		dr.d.Metrics.SkippedRows.Inc()
	}
	orders := order.NewAggregator(dr.d.Normalizer, dr.log).Aggregate(rows)

	done := map[string]journal.Event{}
	if opts.Resume {
		rp, err := journal.ReplayFile(filepath.Join(logsDir, journal.FileName))
		if err != nil {
			return Summary{}, fmt.Errorf("resume: %w", err)
		}
		done = rp.Downloaded()
	}

	fw, err := journal.NewFileWriter(logsDir, journal.FileName)
	if err != nil {
		return Summary{}, fmt.Errorf("journal: %w", err)
	}
	var jw journal.Writer = fw
	if dr.d.Journal != nil {
		jw = journal.NewMultiWriter(fw, dr.d.Journal)
	}

	res := resolve.New(dr.d.Store, dr.d.Normalizer, dr.d.Scopes, resolve.Options{
		MaxDepth: dr.d.MaxDepth,
		Log:      searchLog,
		Metrics:  dr.d.Metrics,
		Logger:   dr.log,
	})

	run := &run{
		Driver:  dr,
		root:    root,
		opts:    opts,
		errLog:  errLog,
		journal: jw,
		res:     res,
		done:    done,
		sum:     Summary{RunID: uuid.NewString(), RunRoot: root, OrderCount: len(orders), SkippedRows: len(skipped)},
		missing: map[string]bool{},
	}
	dr.log.Info("run started",
		zap.String("runId", run.sum.RunID), zap.String("csv", csvPath), zap.String("root", root),
		zap.Int("orders", len(orders)), zap.Bool("download", opts.Download))

	for i, o := range orders {
		run.process(ctx, int64(i+1), o)
	}
	run.finish(csvPath, started)
	return run.sum, nil
}

type run struct {
	*Driver
	root    string
	opts    Options
	errLog  *runlog.Log
	journal journal.Writer
	res     *resolve.Resolver
	done    map[string]journal.Event
	sum     Summary
	missing map[string]bool
}

func (r *run) process(ctx context.Context, seq int64, o order.Order) {
	m := r.d.Metrics
	m.Orders.Inc()
	ev := journal.Event{
		RunID:    r.sum.RunID,
		Seq:      seq,
		Key:      o.Key(),
		OrderID:  o.OrderID,
		SKU:      o.SKU,
		Code:     o.Code,
		Quantity: o.Quantity,
	}

	if prev, ok := r.done[o.Key()]; ok && r.opts.Download && fileExists(prev.Path) {
		r.sum.ResolvedCount++
		r.sum.DownloadedCount++
		m.Resumed.Inc()
		r.log.Debug("already downloaded", zap.String("order", o.String()), zap.String("path", prev.Path))
		return
	}

	found, err := r.res.Resolve(ctx, o)
	if err != nil {
		r.errLog.Printf("Order file id not found: %s - %s", o.OrderID, o.SKU)
		r.log.Warn("order unresolved", zap.String("order", o.String()), zap.Error(err))
		if !r.missing[o.Code] {
			r.missing[o.Code] = true
			r.sum.MissingDesignCodes = append(r.sum.MissingDesignCodes, o.Code)
		}
		m.Missing.Inc()
		ev.Outcome, ev.Error = journal.Missing, err.Error()
		r.append(ev)
		return
	}
	r.sum.ResolvedCount++
	m.Resolved.Inc()
	ev.Code, ev.FileID, ev.FileName = found.Code, found.File.ID, found.File.Name

	category, err := r.classify.Category(o)
	if err != nil {
		r.errLog.Printf("%v", err)
		r.log.Warn("order unclassified", zap.String("order", o.String()), zap.Error(err))
		m.ClassifyFailed.Inc()
		ev.Outcome, ev.Error = journal.Unclassified, err.Error()
		r.append(ev)
		return
	}

	if !r.opts.Download {
		m.Verified.Inc()
		ev.Outcome = journal.Verified
		r.append(ev)
		return
	}

	path := filepath.Join(classify.Dir(r.root, category, o), classify.FileName(category, o, found.File.Name))
	ev.Path = path
	if err := r.save(ctx, found.File.ID, path); err != nil {
		r.errLog.Printf("Download Error occurred for file: %s.\nError message: %v", filepath.Base(path), err)
		r.log.Warn("transfer failed", zap.String("order", o.String()), zap.Error(err))
		m.TransferFailed.Inc()
		ev.Outcome, ev.Error = journal.TransferFailed, err.Error()
		r.append(ev)
		return
	}
	r.sum.DownloadedCount++
	m.Downloaded.Inc()
	ev.Outcome = journal.Downloaded
	r.append(ev)
	r.log.Info("downloaded", zap.String("order", o.String()), zap.String("path", path))
}

func (r *run) append(ev journal.Event) {
	ev.TS = now().Unix()
	if err := r.journal.Append(ev); err != nil {
		r.log.Warn("journal append failed", zap.String("key", ev.Key), zap.Error(err))
	}
}

func (r *run) save(ctx context.Context, fileID, path string) error {
	return saveFile(ctx, r.d.Store, fileID, path)
}

// saveFile writes the file content next to path and renames it into place, so
// an interrupted run never leaves a truncated file under the final name.
func saveFile(ctx context.Context, store artwork.Store, fileID, path string) error {
	fail := func(err error) error { return &TransferError{FileID: fileID, Path: path, Err: err} }
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(fmt.Errorf("mkdir: %w", err))
	}
	rc, err := store.Fetch(ctx, fileID)
	if err != nil {
		return fail(fmt.Errorf("fetch: %w", err))
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(dir, ".part-*")
	if err != nil {
		return fail(fmt.Errorf("create: %w", err))
	}
	_, err = io.Copy(tmp, rc)
	err = errors.Join(err, tmp.Close())
	if err != nil {
		_ = os.Remove(tmp.Name())
		return fail(fmt.Errorf("write: %w", err))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fail(fmt.Errorf("rename: %w", err))
	}
	return nil
}

func (r *run) finish(csvPath string, started time.Time) {
	s := r.sum
	completed := s.ResolvedCount
	if r.opts.Download {
		completed = s.DownloadedCount
	}
	if s.OrderCount != completed {
		r.errLog.Printf("\nOrders: %d\nFound files: %d\nMissing files: %d", s.OrderCount, completed, s.OrderCount-completed)
	}

	finished := now()
	r.d.Metrics.LastRunDuration.Set(finished.Sub(started).Seconds())
	man := manifest.Manifest{
		RunID:       s.RunID,
		CSV:         csvPath,
		RunRoot:     r.root,
		Download:    r.opts.Download,
		StartedAt:   started.Unix(),
		FinishedAt:  finished.Unix(),
		Orders:      s.OrderCount,
		Resolved:    s.ResolvedCount,
		Downloaded:  s.DownloadedCount,
		Missing:     s.MissingDesignCodes,
		SkippedRows: s.SkippedRows,
	}
	var pub manifest.Publisher = manifest.NewFilesystemManifest(filepath.Join(r.root, "logs"))
	if r.d.Manifest != nil {
		pub = manifest.MultiPublisher(pub, r.d.Manifest)
	}
	if err := pub.Publish(man); err != nil {
		r.log.Warn("manifest publish failed", zap.Error(err))
	}
	r.log.Info("run finished",
		zap.String("runId", s.RunID),
		zap.Int("orders", s.OrderCount),
		zap.Int("resolved", s.ResolvedCount),
		zap.Int("downloaded", s.DownloadedCount),
		zap.Int("missing", len(s.MissingDesignCodes)))
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
