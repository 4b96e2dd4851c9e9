package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hupe1980/nativeio"
	"github.com/hupe1980/nativeio/directio"
	"github.com/hupe1980/nativeio/resource"
	"golang.org/x/sync/errgroup"
)

// directExcluded lists extensions never written with direct I/O under
// UsageDefault: stored fields and field infos are written with that usage
// and read back immediately.
var directExcluded = []string{"fnm", "fdt", "fdx"}

// Option configures a Directory.
type Option func(*dirOptions)

type dirOptions struct {
	logger  *nativeio.Logger
	metrics nativeio.MetricsCollector
}

// WithLogger sets the logger passed to the underlying nativeio.FS. The
// directory's own records carry the root as their path.
func WithLogger(l *nativeio.Logger) Option {
	return func(o *dirOptions) { o.logger = l }
}

// WithMetricsCollector sets the collector passed to the underlying nativeio.FS.
func WithMetricsCollector(mc nativeio.MetricsCollector) Option {
	return func(o *dirOptions) { o.metrics = mc }
}

// Directory opens files under a root directory with a per-open I/O strategy.
// It is safe for concurrent use.
type Directory struct {
	root   string
	cfg    Config
	fs     *nativeio.FS
	rc     *resource.Controller
	logger *nativeio.Logger
}

// New creates a Directory rooted at root, creating root if needed.
func New(root string, cfg Config, optFns ...Option) (*Directory, error) {
	if cfg.ForceIO == "" {
		cfg.ForceIO = ForceNone
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}

	var o dirOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = nativeio.NoopLogger()
	}

	rc := resource.NewController(resource.Config{
		MaxMappedBytes:       cfg.MaxMappedBytes,
		MaxBackgroundWorkers: cfg.WarmConcurrency,
		IOLimitBytesPerSec:   cfg.IOLimitBytesPerSec,
	})
	fs := nativeio.New(
		nativeio.WithLogger(o.logger),
		nativeio.WithMetricsCollector(o.metrics),
		nativeio.WithResourceController(rc),
		nativeio.WithDropCacheOnRelease(cfg.DropCacheOnClose),
	)

	return &Directory{
		root:   root,
		cfg:    cfg,
		fs:     fs,
		rc:     rc,
		logger: o.logger.WithPath(root),
	}, nil
}

// Root returns the directory path.
func (d *Directory) Root() string { return d.root }

// FS returns the nativeio.FS used for native opens.
func (d *Directory) FS() *nativeio.FS { return d.fs }

// Resources returns the resource controller shared by all opens.
func (d *Directory) Resources() *resource.Controller { return d.rc }

func (d *Directory) path(name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) {
		return "", fmt.Errorf("store: invalid file name %q", name)
	}
	return filepath.Join(d.root, name), nil
}

// InputStrategy returns the strategy OpenInput uses for name under ioCtx.
func (d *Directory) InputStrategy(name string, ioCtx IOContext) (Strategy, error) {
	switch d.cfg.ForceIO {
	case ForceDirect:
		return StrategyDirect, nil
	case ForceMmap:
		return StrategyMmap, nil
	}

	switch {
	case ioCtx.Usage == UsageRead:
		if d.cfg.MmapEnabled {
			return StrategyMmap, nil
		}
		return StrategyBuffered, nil
	case ioCtx.Usage == UsageMerge && ioCtx.EstimatedBytes >= d.cfg.MinBytesDirect:
		return d.directIf(d.cfg.DirectReadEnabled), nil
	}

	path, err := d.path(name)
	if err != nil {
		return 0, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if st.Size() >= d.cfg.MinBytesDirect {
		return d.directIf(d.cfg.DirectReadEnabled), nil
	}
	return StrategyBuffered, nil
}

// OutputStrategy returns the strategy CreateOutput uses for name under ioCtx.
func (d *Directory) OutputStrategy(name string, ioCtx IOContext) Strategy {
	if d.cfg.ForceIO == ForceDirect {
		return StrategyDirect
	}
	switch {
	case ioCtx.Usage == UsageMerge && ioCtx.EstimatedBytes >= d.cfg.MinBytesDirect:
		return d.directIf(d.cfg.DirectWriteEnabled)
	case ioCtx.Usage == UsageDefault:
		if slices.Contains(directExcluded, extension(name)) {
			return StrategyBuffered
		}
		return d.directIf(d.cfg.DirectWriteEnabled)
	}
	return StrategyBuffered
}

func (d *Directory) directIf(enabled bool) Strategy {
	if enabled {
		return StrategyDirect
	}
	return StrategyBuffered
}

// OpenInput opens name for reading. Merge inputs are throttled by the
// configured IO limit; ctx bounds the wait.
func (d *Directory) OpenInput(ctx context.Context, name string, ioCtx IOContext) (Input, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}
	strategy, err := d.InputStrategy(name, ioCtx)
	if err != nil {
		return nil, err
	}

	var in Input
	switch strategy {
	case StrategyMmap:
		in, err = d.openMapped(path)
	case StrategyDirect:
		in, err = directio.Open(d.fs, path, d.cfg.DirectReadBufferSize)
	default:
		in, err = openBuffered(path)
	}
	if err != nil {
		return nil, err
	}

	d.logger.DebugContext(ctx, "input opened",
		"name", name,
		"usage", ioCtx.Usage.String(),
		"strategy", strategy.String(),
		"size", in.Size(),
	)
	if ioCtx.Usage == UsageMerge {
		return newThrottledInput(ctx, in, d.rc), nil
	}
	return in, nil
}

func (d *Directory) openMapped(path string) (Input, error) {
	m, err := d.fs.MapReadOnly(path)
	if err != nil {
		return nil, err
	}
	if d.cfg.shouldPreload(path, m.Len()) {
		if err := m.Preload(); err != nil {
			return nil, errors.Join(err, m.Release())
		}
	}
	if !d.cfg.MmapReadAhead {
		if err := m.Advise(0, m.Len(), nativeio.MemRandom); err != nil {
			return nil, errors.Join(err, m.Release())
		}
	}
	return &mappedInput{m: m}, nil
}

func openBuffered(path string) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}
	return &bufferedInput{f: f, size: st.Size()}, nil
}

// CreateOutput creates or truncates name for writing. Merge outputs are
// throttled by the configured IO limit; ctx bounds the wait.
func (d *Directory) CreateOutput(ctx context.Context, name string, ioCtx IOContext) (Output, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}

	strategy := d.OutputStrategy(name, ioCtx)
	var out Output
	switch strategy {
	case StrategyDirect:
		out, err = directio.Create(d.fs, path, d.cfg.DirectWriteBufferSize)
	default:
		var f *os.File
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err == nil {
			out = newBufferedOutput(f, bufferSize(d.cfg.DirectWriteBufferSize))
		}
	}
	if err != nil {
		return nil, err
	}

	d.logger.DebugContext(ctx, "output created",
		"name", name,
		"usage", ioCtx.Usage.String(),
		"strategy", strategy.String(),
	)
	if ioCtx.Usage == UsageMerge {
		return newThrottledOutput(ctx, out, d.rc), nil
	}
	return out, nil
}

func bufferSize(n int) int {
	if n <= 0 {
		return DefaultDirectBufferSize
	}
	return n
}

// Warm maps and preloads the named files so their pages are resident, at
// most WarmConcurrency at a time. The mappings are released afterwards; the
// page cache keeps the data.
func (d *Directory) Warm(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		path, err := d.path(name)
		if err != nil {
			return errors.Join(err, g.Wait())
		}
		if err := d.rc.AcquireBackground(ctx); err != nil {
			return errors.Join(err, g.Wait())
		}
		g.Go(func() error {
			defer d.rc.ReleaseBackground()

			m, err := d.fs.MapReadOnly(path)
			if err != nil {
				return err
			}
			return errors.Join(m.Preload(), m.Release())
		})
	}
	return g.Wait()
}

// DropCache asks the kernel to drop name's pages from the page cache.
func (d *Directory) DropCache(name string) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	h, err := d.fs.Open(path)
	if err != nil {
		return err
	}
	return errors.Join(h.Advise(0, 0, nativeio.FileDontNeed), h.Close())
}

// List returns the names of the regular files in the directory with the
// given prefix, sorted.
func (d *Directory) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Delete removes name.
func (d *Directory) Delete(name string) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
