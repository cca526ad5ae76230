package fulfil

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"blorders/internal/artwork"
	"blorders/internal/order"
	"blorders/internal/resolve"
	"blorders/internal/sku"
)

type ListedOptions struct {
	// Folder is searched together with its sub-folders.
	Folder string
	Dest   string
	Kind   artwork.Kind
}

type ListedSummary struct {
	Requested  int      `json:"requested"`
	Downloaded int      `json:"downloaded"`
	Missing    []string `json:"missing"`
}

// Listed downloads the artwork of every design in a design list. A design not
// found under its full name is retried with the name shortened one segment at
// a time. Only an unreadable list or an unreachable store is returned as error.
func (dr *Driver) Listed(ctx context.Context, listPath string, opts ListedOptions) (ListedSummary, error) {
	if p, ok := dr.d.Store.(artwork.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return ListedSummary{}, fmt.Errorf("remote store unreachable: %w", err)
		}
	}
	designs, err := order.ReadDesignsFile(listPath)
	if err != nil {
		return ListedSummary{}, err
	}
	res := resolve.New(dr.d.Store, nil, nil, resolve.Options{
		MaxDepth: dr.d.MaxDepth,
		Metrics:  dr.d.Metrics,
		Logger:   dr.log,
	})

	sum := ListedSummary{Requested: len(designs)}
	for _, d := range designs {
		f, ok, err := findDesign(ctx, res, opts.Folder, d, opts.Kind)
		if err != nil {
			dr.log.Warn("design search failed", zap.String("code", d.Code), zap.Error(err))
		}
		if !ok {
			dr.log.Info("design not found", zap.String("code", d.Code))
			sum.Missing = append(sum.Missing, d.Code)
			continue
		}
		dr.log.Info("design found", zap.String("code", d.Code), zap.String("file", f.Name), zap.String("id", f.ID))
		if err := saveFile(ctx, dr.d.Store, f.ID, filepath.Join(opts.Dest, f.Name)); err != nil {
			dr.log.Warn("transfer failed", zap.String("code", d.Code), zap.Error(err))
			sum.Missing = append(sum.Missing, d.Code)
			continue
		}
		sum.Downloaded++
	}
	return sum, nil
}

func findDesign(ctx context.Context, res *resolve.Resolver, folder string, d order.Design, kind artwork.Kind) (artwork.File, bool, error) {
	name := d.Name
	for {
		kw := []string{name}
		if d.EndCode != "" {
			kw = append(kw, d.EndCode)
		}
		f, ok, err := res.Find(ctx, folder, kw, kind)
		if err != nil || ok {
			return f, ok, err
		}
		if name, ok = sku.Shorten(name); !ok {
			return artwork.File{}, false, nil
		}
	}
}
