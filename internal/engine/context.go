package engine

import (
	"context"
	"io"
	"time"

	"github.com/petrijr/miniapp/internal/registry"
	"github.com/petrijr/miniapp/internal/state"
	"github.com/petrijr/miniapp/pkg/api"
)

// contextImpl is the default api.Context: a state container plus an
// adapter registry bound to one application name and base path.
type contextImpl[T any] struct {
	appName  string
	basePath string

	state    *state.Container[T]
	adapters *registry.Registry[T]
	observer api.Observer
}

// Ensure contextImpl implements api.Context.
var _ api.Context[struct{}] = (*contextImpl[struct{}])(nil)

// NewContext builds a Context for cfg, registering its adapters in order.
func NewContext[T any](cfg api.Config[T], obs api.Observer) (api.Context[T], error) {
	if !cfg.Valid() {
		return nil, &api.InvalidArgumentError{Field: "config", Reason: "must be built with NewConfig"}
	}
	if obs == nil {
		obs = api.NoopObserver{}
	}

	c := &contextImpl[T]{
		appName:  cfg.AppName(),
		basePath: cfg.BasePath(),
		state:    state.New[T](),
		adapters: registry.New[T](),
		observer: obs,
	}

	for _, a := range cfg.Adapters() {
		if err := c.adapters.Register(c.appName, a); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *contextImpl[T]) AppName() string { return c.appName }

func (c *contextImpl[T]) GetData() []T { return c.state.GetData() }

func (c *contextImpl[T]) SetData(items []T) { c.state.SetData(items) }

func (c *contextImpl[T]) ClearData() { c.state.Clear() }

func (c *contextImpl[T]) IsModified() bool { return c.state.IsModified() }

func (c *contextImpl[T]) ImportData(ctx context.Context, format string) error {
	return c.ImportFileWith(ctx, defaultFilename(c.appName, format), format, nil)
}

func (c *contextImpl[T]) ImportDataWith(ctx context.Context, format string, strategy api.MergeStrategy[T]) error {
	return c.ImportFileWith(ctx, defaultFilename(c.appName, format), format, strategy)
}

func (c *contextImpl[T]) ImportFile(ctx context.Context, path, format string) error {
	return c.ImportFileWith(ctx, path, format, nil)
}

func (c *contextImpl[T]) ImportFileWith(ctx context.Context, path, format string, strategy api.MergeStrategy[T]) error {
	start := time.Now()
	resolved := resolvePath(path, c.basePath)

	imported, err := c.read(ctx, resolved, format)

	c.observer.OnImport(ctx, api.TransferEvent{
		AppName:  c.appName,
		Format:   format,
		Path:     resolved,
		Records:  len(imported),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return err
	}

	// The merge is applied only once the whole file decoded, so a failed
	// import never touches the data set.
	merged := api.StrategyOrDefault(strategy).Merge(c.state.GetData(), imported)
	c.state.SetData(merged)
	return nil
}

func (c *contextImpl[T]) read(ctx context.Context, resolved, format string) ([]T, error) {
	adapter, err := c.adapters.Get(c.appName, format)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var imported []T
	err = readFrom(resolved, func(r io.Reader) error {
		items, rerr := adapter.Read(r)
		if rerr != nil {
			if api.IsIOError(rerr) {
				return rerr
			}
			return api.NewDecodeError(adapter.Format(), rerr)
		}
		imported = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return imported, nil
}

func (c *contextImpl[T]) ImportDetected(ctx context.Context, path string, strategy api.MergeStrategy[T]) error {
	format, ok := c.DetectFormat(path)
	if !ok {
		return &api.UnsupportedFormatError{
			AppName:   c.appName,
			Format:    fileExtension(path),
			Supported: c.SupportedFormats(),
		}
	}
	return c.ImportFileWith(ctx, path, format, strategy)
}

func (c *contextImpl[T]) ExportData(ctx context.Context, format string) error {
	return c.ExportFile(ctx, defaultFilename(c.appName, format), format)
}

func (c *contextImpl[T]) ExportFile(ctx context.Context, path, format string) error {
	start := time.Now()
	resolved := resolvePath(path, c.basePath)
	items := c.state.GetData()

	err := c.write(ctx, resolved, format, items)

	c.observer.OnExport(ctx, api.TransferEvent{
		AppName:  c.appName,
		Format:   format,
		Path:     resolved,
		Records:  len(items),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return err
	}

	c.state.SetModified(false)
	return nil
}

func (c *contextImpl[T]) write(ctx context.Context, resolved, format string, items []T) error {
	adapter, err := c.adapters.Get(c.appName, format)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return writeTo(resolved, func(w io.Writer) error {
		if werr := adapter.Write(items, w); werr != nil {
			if api.IsIOError(werr) {
				return werr
			}
			return api.NewEncodeError(adapter.Format(), werr)
		}
		return nil
	})
}

func (c *contextImpl[T]) DetectFormat(path string) (string, bool) {
	if ext := fileExtension(path); ext != "" && c.SupportsFormat(ext) {
		return ext, true
	}

	resolved := resolvePath(path, c.basePath)
	for _, format := range c.SupportedFormats() {
		adapter, err := c.adapters.Get(c.appName, format)
		if err != nil {
			continue
		}
		matched := false
		// Open failures and adapter errors just mean "not this format".
		_ = readFrom(resolved, func(r io.Reader) error {
			matched = probe(adapter, r)
			return nil
		})
		if matched {
			return format, true
		}
	}
	return "", false
}

// probe runs adapter.Validate, treating a panic as a mismatch.
func probe[T any](adapter api.FormatAdapter[T], r io.Reader) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return adapter.Validate(r)
}

func (c *contextImpl[T]) SupportsFormat(format string) bool {
	return c.adapters.Supports(c.appName, format)
}

func (c *contextImpl[T]) SupportedFormats() []string {
	return c.adapters.SupportedFormats(c.appName)
}
