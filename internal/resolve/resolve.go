// Package resolve finds the artwork file for an order. A miss on the order's
// code relaxes the code to its design name plus end-code, then to its design
// name plus color letter, never trying the same code twice.
package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"blorders/internal/artwork"
	"blorders/internal/metrics"
	"blorders/internal/order"
	"blorders/internal/sku"
)

const DefaultMaxDepth = 8

// SearchLog receives the operator facing record of every search.
type SearchLog interface {
	Searched(code string, keywords []string)
	Found(code string, f artwork.File)
	NotFound(code string)
}

type Options struct {
	// MaxDepth bounds the folder fallback below the scope folder.
	MaxDepth int
	Log      SearchLog
	Metrics  *metrics.Registry
	Logger   *zap.Logger
}

// Result is a resolved order.
type Result struct {
	File  artwork.File
	Code  string
	Scope string
	Tried []string
}

// Error is a resolution failure. Err is set when the store failed rather than
// returning nothing.
type Error struct {
	Code   string
	Tried  []string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("resolve %s: %s", e.Code, e.Reason)
	if len(e.Tried) > 0 {
		msg += " (tried " + strings.Join(e.Tried, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

type Resolver struct {
	store  artwork.Store
	norm   *sku.Normalizer
	scopes Scopes
	opts   Options
}

func New(store artwork.Store, n *sku.Normalizer, scopes Scopes, opts Options) *Resolver {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Resolver{store: store, norm: n, scopes: scopes, opts: opts}
}

// Scope returns the folder searched for an order.
func (r *Resolver) Scope(o order.Order) (string, error) {
	p, ok := r.norm.Product(o.ProductType)
	if !ok {
		return "", fmt.Errorf("unknown product type for sku %q", o.SKU)
	}
	id, ok := r.scopes.For(p.Group, o.Color)
	if !ok {
		return "", fmt.Errorf("no scope for %s", ScopeKey{Group: p.Group, Color: o.Color})
	}
	return id, nil
}

// Keywords splits a code into the name fragments a file must contain.
// Halftone designs also need the halftone marker.
func (r *Resolver) Keywords(code string, c sku.Color) []string {
	var out []string
	add := func(k string) {
		if k == "" {
			return
		}
		for _, e := range out {
			if e == k {
				return
			}
		}
		out = append(out, k)
	}
	for _, part := range strings.Split(code, "_") {
		add(part)
	}
	if c == sku.ColorBlackHalftone {
		add(r.norm.Rules().HalftoneMarker)
	}
	return out
}

// Resolve searches the order's scope for its artwork. Failures, including
// store errors, come back as *Error.
func (r *Resolver) Resolve(ctx context.Context, o order.Order) (Result, error) {
	start := time.Now()
	if m := r.opts.Metrics; m != nil {
		defer func() { m.ResolveLatency.Observe(time.Since(start).Seconds()) }()
	}

	if o.FileKind == artwork.KindNone || o.Code == "" {
		return Result{}, &Error{Code: o.Code, Reason: "no product type or code"}
	}
	scope, err := r.Scope(o)
	if err != nil {
		return Result{}, &Error{Code: o.Code, Reason: err.Error()}
	}

	state := Start(o.Code)
	for {
		f, ok, err := r.attempt(ctx, scope, o, state.Code)
		if err != nil {
			return Result{}, &Error{Code: o.Code, Tried: state.Tried(), Reason: "store error", Err: err}
		}
		if ok {
			return Result{File: f, Code: state.Code, Scope: scope, Tried: state.Tried()}, nil
		}
		next, ok := Relax(o, state)
		if !ok {
			return Result{}, &Error{Code: o.Code, Tried: state.Tried(), Reason: "not found"}
		}
		if m := r.opts.Metrics; m != nil {
			m.Relaxations.Inc()
		}
		r.opts.Logger.Debug("relaxing code", zap.String("from", state.Code), zap.String("to", next.Code))
		state = next
	}
}

// Relax returns the next code to try: design name plus end-code, then design
// name plus the color letter. Codes already tried are skipped.
func Relax(o order.Order, s SearchState) (SearchState, bool) {
	if o.DesignName == "" || o.EndCode == "" {
		return s, false
	}
	if next, ok := s.Next(o.DesignName + "_" + o.EndCode); ok {
		return next, true
	}
	if l := o.Color.Letter(); l != "" {
		return s.Next(o.DesignName + l)
	}
	return s, false
}

func (r *Resolver) attempt(ctx context.Context, scope string, o order.Order, code string) (artwork.File, bool, error) {
	kw := r.Keywords(code, o.Color)
	if r.opts.Log != nil {
		r.opts.Log.Searched(code, kw)
	}
	f, ok, err := r.Find(ctx, scope, kw, o.FileKind)
	if err != nil {
		return artwork.File{}, false, err
	}
	if r.opts.Log != nil {
		if ok {
			r.opts.Log.Found(code, f)
		} else {
			r.opts.Log.NotFound(code)
		}
	}
	return f, ok, nil
}

// Find searches folder and its sub-folders for a file matching every keyword
// and returns the best candidate of the first folder with any.
func (r *Resolver) Find(ctx context.Context, folder string, keywords []string, kind artwork.Kind) (artwork.File, bool, error) {
	return r.searchTree(ctx, folder, keywords, kind, 0, map[string]bool{})
}

// searchTree searches folder, then its sub-folders depth first. seen guards
// against folders reachable from more than one parent.
func (r *Resolver) searchTree(ctx context.Context, folder string, kw []string, kind artwork.Kind, depth int, seen map[string]bool) (artwork.File, bool, error) {
	if seen[folder] {
		return artwork.File{}, false, nil
	}
	seen[folder] = true

	if m := r.opts.Metrics; m != nil {
		m.StoreQueries.Inc()
	}
	files, err := r.store.Search(ctx, folder, kw, kind)
	if err != nil {
		return artwork.File{}, false, fmt.Errorf("search %s: %w", folder, err)
	}
	if len(files) > 0 {
		return Best(files), true, nil
	}
	if depth >= r.opts.MaxDepth {
		return artwork.File{}, false, nil
	}
	children, err := r.store.ListChildren(ctx, folder)
	if err != nil {
		return artwork.File{}, false, fmt.Errorf("list %s: %w", folder, err)
	}
	for _, c := range children {
		f, ok, err := r.searchTree(ctx, c.ID, kw, kind, depth+1, seen)
		if err != nil || ok {
			return f, ok, err
		}
	}
	return artwork.File{}, false, nil
}

// Best picks the candidate with the shortest name; earlier candidates win
// ties. Spaces in the name become underscores.
func Best(files []artwork.File) artwork.File {
	best := files[0]
	for _, f := range files[1:] {
		if len(f.Name) < len(best.Name) {
			best = f
		}
	}
	best.Name = strings.ReplaceAll(best.Name, " ", "_")
	return best
}
