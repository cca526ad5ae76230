// Package sheet lays out design PNGs side by side on transparent print sheets.
package sheet

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"blorders/internal/runlog"
)

// Print geometry at 200 dpi.
const (
	PixelsPerCM = 37.8 / 0.48
	HeightCM    = 30
	SpacingCM   = 1
	BatchSize   = 6
	MaxUpscale  = 1.3
)

var (
	pxPerCM      = PixelsPerCM
	targetHeight = int(HeightCM * pxPerCM)
	spacing      = int(SpacingCM * pxPerCM)
)

var now = time.Now

type Options struct {
	// Parallel bounds the number of sheets rendered at once; 0 means one per CPU.
	Parallel int
	Logger   *zap.Logger
}

// Merge composes the PNG files of src, in name order and BatchSize at a time,
// into sheets written to dst as "<n>__<stamp>.png". It returns the number of
// designs placed on a sheet.
func Merge(ctx context.Context, src, dst string, opts Options) (int, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	files, err := listPNG(src)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	stamp := runlog.Stamp(now())

	var placed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	g.SetLimit(parallel)
	for i, batch := range batches(files, BatchSize) {
		out := filepath.Join(dst, fmt.Sprintf("%d__%s.png", i+1, stamp))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := renderSheet(batch, out, log)
			placed.Add(int64(n))
			return err
		})
	}
	err = g.Wait()
	return int(placed.Load()), err
}

func listPNG(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []string
	for _, e := range ents {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".png") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func batches(files []string, size int) [][]string {
	var out [][]string
	for len(files) > size {
		out = append(out, files[:size])
		files = files[size:]
	}
	if len(files) > 0 {
		out = append(out, files)
	}
	return out
}

func renderSheet(paths []string, out string, log *zap.Logger) (int, error) {
	var imgs []image.Image
	for _, p := range paths {
		img, err := load(p)
		if err != nil {
			return 0, err
		}
		fitted, ok := fit(img)
		if !ok {
			log.Warn("image too small to enlarge", zap.String("file", filepath.Base(p)),
				zap.Int("height", img.Bounds().Dy()))
			continue
		}
		imgs = append(imgs, fitted)
	}
	if len(imgs) == 0 {
		return 0, nil
	}

	width := spacing * (len(imgs) - 1)
	for _, img := range imgs {
		width += img.Bounds().Dx()
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, width, targetHeight))
	x := 0
	for _, img := range imgs {
		b := img.Bounds()
		draw.Draw(canvas, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Over)
		x += b.Dx() + spacing
	}
	if err := writePNG(out, canvas); err != nil {
		return 0, err
	}
	log.Info("sheet written", zap.String("path", out), zap.Int("designs", len(imgs)))
	return len(imgs), nil
}

func load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// fit stands landscape images upright and scales them to the sheet height.
// Images that would need more than MaxUpscale are rejected.
func fit(img image.Image) (image.Image, bool) {
	b := img.Bounds()
	if b.Dx() > b.Dy() {
		img = rotateLeft(img)
		b = img.Bounds()
	}
	h := b.Dy()
	if h == targetHeight {
		return img, true
	}
	factor := float64(targetHeight) / float64(h)
	if factor > MaxUpscale {
		return nil, false
	}
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	dst := image.NewNRGBA(image.Rect(0, 0, w, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, true
}

// rotateLeft turns an image 90 degrees counter-clockwise.
func rotateLeft(src image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
