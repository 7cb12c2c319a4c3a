package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/miniapp/pkg/adapters"
	"github.com/petrijr/miniapp/pkg/api"
)

type record struct {
	X int `json:"x" yaml:"x"`
}

func newTestContext(t *testing.T, base string, obs api.Observer, extra ...api.FormatAdapter[record]) api.Context[record] {
	t.Helper()
	cfg, err := api.NewConfig(api.ConfigParams[record]{
		AppName:  "Sample",
		BasePath: base,
		Adapters: append([]api.FormatAdapter[record]{adapters.JSON[record]()}, extra...),
	})
	require.NoError(t, err)

	appCtx, err := NewContext(cfg, obs)
	require.NoError(t, err)
	return appCtx
}

// failingAdapter always fails to encode and never validates.
type failingAdapter struct{ format string }

func (f failingAdapter) Format() string                   { return f.format }
func (f failingAdapter) Read(io.Reader) ([]record, error) { return nil, errors.New("cannot read") }
func (f failingAdapter) Write([]record, io.Writer) error  { return errors.New("cannot write") }
func (f failingAdapter) Validate(io.Reader) bool          { panic("probe exploded") }

func TestContext_ExportThenImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()

	src := newTestContext(t, base, nil)
	src.SetData([]record{{X: 1}, {X: 2}})
	require.True(t, src.IsModified())

	require.NoError(t, src.ExportData(ctx, "json"))
	assert.False(t, src.IsModified(), "a successful export clears the modified flag")
	assert.FileExists(t, filepath.Join(base, "Sample.json"))

	dst := newTestContext(t, base, nil)
	require.NoError(t, dst.ImportData(ctx, "json"))
	assert.Equal(t, []record{{X: 1}, {X: 2}}, dst.GetData())
	assert.True(t, dst.IsModified())
}

func TestContext_ImportMissingFileLeavesDataUnchanged(t *testing.T) {
	appCtx := newTestContext(t, t.TempDir(), nil)
	appCtx.SetData([]record{{X: 7}})

	err := appCtx.ImportData(context.Background(), "json")
	require.Error(t, err)
	assert.True(t, api.IsIOError(err))
	assert.Equal(t, []record{{X: 7}}, appCtx.GetData())
}

func TestContext_ImportMalformedLeavesDataUnchanged(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "Sample.json"), []byte(`[{"x": 1}, {"x":`), 0o644))

	appCtx := newTestContext(t, base, nil)
	appCtx.SetData([]record{{X: 7}})

	err := appCtx.ImportData(context.Background(), "json")
	require.Error(t, err)
	assert.True(t, api.IsDecodeError(err))
	assert.Equal(t, []record{{X: 7}}, appCtx.GetData())
}

func TestContext_UnsupportedFormat(t *testing.T) {
	appCtx := newTestContext(t, t.TempDir(), nil)
	appCtx.SetData([]record{{X: 1}})

	err := appCtx.ExportData(context.Background(), "xml")
	require.Error(t, err)
	require.True(t, api.IsUnsupportedFormat(err))

	var ufe *api.UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "xml", ufe.Format)
	assert.Equal(t, []string{"json"}, ufe.Supported)

	err = appCtx.ImportData(context.Background(), "xml")
	assert.True(t, api.IsUnsupportedFormat(err))
	assert.Equal(t, []record{{X: 1}}, appCtx.GetData())
}

func TestContext_ImportStrategies(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "Sample.json"), []byte(`[{"x":2},{"x":3}]`), 0o644))

	t.Run("default replaces", func(t *testing.T) {
		appCtx := newTestContext(t, base, nil)
		appCtx.SetData([]record{{X: 1}})
		require.NoError(t, appCtx.ImportData(ctx, "json"))
		assert.Equal(t, []record{{X: 2}, {X: 3}}, appCtx.GetData())
	})

	t.Run("append", func(t *testing.T) {
		appCtx := newTestContext(t, base, nil)
		appCtx.SetData([]record{{X: 1}})
		require.NoError(t, appCtx.ImportDataWith(ctx, "json", api.Append[record]()))
		assert.Equal(t, []record{{X: 1}, {X: 2}, {X: 3}}, appCtx.GetData())
	})

	t.Run("merge by key", func(t *testing.T) {
		appCtx := newTestContext(t, base, nil)
		appCtx.SetData([]record{{X: 3}, {X: 1}})
		byX := api.MergeByKey(func(r record) int { return r.X })
		require.NoError(t, appCtx.ImportDataWith(ctx, "json", byX))
		assert.Equal(t, []record{{X: 3}, {X: 1}, {X: 2}}, appCtx.GetData())
	})
}

func TestContext_ImportEmptyFileReplacesWithNothing(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "Sample.json"), nil, 0o644))

	appCtx := newTestContext(t, base, nil)
	appCtx.SetData([]record{{X: 1}})
	require.NoError(t, appCtx.ImportData(context.Background(), "json"))
	assert.Empty(t, appCtx.GetData())
}

func TestContext_ExportCreatesParentDirectories(t *testing.T) {
	base := filepath.Join(t.TempDir(), "does", "not", "exist")
	appCtx := newTestContext(t, base, nil)
	appCtx.SetData([]record{{X: 1}})

	require.NoError(t, appCtx.ExportFile(context.Background(), "nested/out.json", "json"))
	assert.FileExists(t, filepath.Join(base, "nested", "out.json"))
}

func TestContext_AbsolutePathBypassesBase(t *testing.T) {
	other := filepath.Join(t.TempDir(), "elsewhere.json")
	appCtx := newTestContext(t, t.TempDir(), nil)
	appCtx.SetData([]record{{X: 5}})

	require.NoError(t, appCtx.ExportFile(context.Background(), other, "json"))
	assert.FileExists(t, other)

	fresh := newTestContext(t, t.TempDir(), nil)
	require.NoError(t, fresh.ImportFile(context.Background(), other, "json"))
	assert.Equal(t, []record{{X: 5}}, fresh.GetData())
}

func TestContext_FailedExportKeepsPreviousFile(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	appCtx := newTestContext(t, base, nil, failingAdapter{format: "bad"})

	appCtx.SetData([]record{{X: 1}})
	require.NoError(t, appCtx.ExportFile(ctx, "out.dat", "json"))
	before, err := os.ReadFile(filepath.Join(base, "out.dat"))
	require.NoError(t, err)

	appCtx.SetData([]record{{X: 2}})
	err = appCtx.ExportFile(ctx, "out.dat", "bad")
	require.Error(t, err)
	assert.True(t, api.IsEncodeError(err))
	assert.True(t, appCtx.IsModified(), "a failed export keeps the modified flag")

	after, err := os.ReadFile(filepath.Join(base, "out.dat"))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.Error(t, appCtx.ExportFile(ctx, "fresh.dat", "bad"))
	assert.NoFileExists(t, filepath.Join(base, "fresh.dat"))
}

func TestContext_AdapterReadErrorIsDecodeError(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "Sample.bad"), []byte("x"), 0o644))

	appCtx := newTestContext(t, base, nil, failingAdapter{format: "bad"})
	err := appCtx.ImportData(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, api.IsDecodeError(err))
}

func TestContext_FormatIDsAreCaseInsensitive(t *testing.T) {
	appCtx := newTestContext(t, t.TempDir(), nil)
	assert.True(t, appCtx.SupportsFormat("JSON"))
	assert.True(t, appCtx.SupportsFormat(" json "))
	assert.False(t, appCtx.SupportsFormat("yaml"))
	assert.Equal(t, []string{"json"}, appCtx.SupportedFormats())
}

func TestContext_DetectFormat(t *testing.T) {
	base := t.TempDir()
	appCtx := newTestContext(t, base, nil, adapters.YAML[record](), failingAdapter{format: "bad"})

	format, ok := appCtx.DetectFormat("anything.YAML")
	assert.True(t, ok)
	assert.Equal(t, "yaml", format)

	// No extension: content is probed against each adapter. "bad" panics
	// while probing and must simply be skipped.
	require.NoError(t, os.WriteFile(filepath.Join(base, "blob"), []byte(`[{"x": 1}]`), 0o644))
	format, ok = appCtx.DetectFormat("blob")
	assert.True(t, ok)
	assert.Equal(t, "json", format)

	require.NoError(t, os.WriteFile(filepath.Join(base, "notes.txt"), []byte("just words: here"), 0o644))
	_, ok = appCtx.DetectFormat("notes.txt")
	assert.False(t, ok)

	_, ok = appCtx.DetectFormat("missing")
	assert.False(t, ok)
}

func TestContext_ImportDetected(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "data.yaml"), []byte("- x: 4\n- x: 5\n"), 0o644))

	appCtx := newTestContext(t, base, nil, adapters.YAML[record]())
	require.NoError(t, appCtx.ImportDetected(ctx, "data.yaml", nil))
	assert.Equal(t, []record{{X: 4}, {X: 5}}, appCtx.GetData())

	require.NoError(t, os.WriteFile(filepath.Join(base, "data.txt"), []byte("plain text"), 0o644))
	err := appCtx.ImportDetected(ctx, "data.txt", api.Append[record]())
	require.Error(t, err)
	assert.True(t, api.IsUnsupportedFormat(err))
	assert.Len(t, appCtx.GetData(), 2)
}

func TestContext_CanceledContextSkipsIO(t *testing.T) {
	base := t.TempDir()
	appCtx := newTestContext(t, base, nil)
	appCtx.SetData([]record{{X: 1}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := appCtx.ExportData(ctx, "json")
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(base, "Sample.json"))
}

func TestContext_ReportsTransfersToObserver(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	obs := &fakeObserver{}
	appCtx := newTestContext(t, base, obs)

	appCtx.SetData([]record{{X: 1}, {X: 2}, {X: 3}})
	require.NoError(t, appCtx.ExportData(ctx, "json"))
	require.NoError(t, appCtx.ImportData(ctx, "json"))
	require.Error(t, appCtx.ImportFile(ctx, "missing.json", "json"))

	require.Len(t, obs.exports, 1)
	assert.Equal(t, 3, obs.exports[0].Records)
	assert.Equal(t, filepath.Join(base, "Sample.json"), obs.exports[0].Path)
	assert.NoError(t, obs.exports[0].Err)

	require.Len(t, obs.imports, 2)
	assert.Equal(t, 3, obs.imports[0].Records)
	assert.True(t, api.IsIOError(obs.imports[1].Err))
}

func TestContext_GetDataReturnsCopy(t *testing.T) {
	appCtx := newTestContext(t, t.TempDir(), nil)
	in := []record{{X: 1}}
	appCtx.SetData(in)
	in[0].X = 99

	out := appCtx.GetData()
	out[0].X = 42
	assert.Equal(t, []record{{X: 1}}, appCtx.GetData())
}

func TestNewContext_RejectsZeroConfig(t *testing.T) {
	_, err := NewContext(api.Config[record]{}, nil)
	require.Error(t, err)
	assert.True(t, api.IsInvalidArgument(err))
}

func TestContext_ExportedJSONIsReadable(t *testing.T) {
	base := t.TempDir()
	appCtx := newTestContext(t, base, nil)
	appCtx.SetData([]record{{X: 1}})
	require.NoError(t, appCtx.ExportData(context.Background(), "json"))

	b, err := os.ReadFile(filepath.Join(base, "Sample.json"))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(b, []byte(`"x": 1`)))
}
