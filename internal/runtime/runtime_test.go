package runtime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	cfgpkg "github.com/rzbill/dunfell/internal/config"
	"github.com/rzbill/dunfell/internal/parser"
)

const sampleLog = "Dunfell log,1.0,100\n" +
	"g_main_context_acquire,150,42,0x10,1\n" +
	"g_main_context_acquire,200,43,0x10,0\n"

func openRuntime(t *testing.T, cfg cfgpkg.Config) *Runtime {
	t.Helper()
	rt, err := Open(Options{DataDir: t.TempDir(), Config: cfg})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func writeLog(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.log")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestOpenCloseHealth(t *testing.T) {
	rt := openRuntime(t, cfgpkg.Default())
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := rt.CheckHealth(context.Background()); err == nil {
		t.Fatalf("health after close succeeded")
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Fsync = "sometimes"
	if _, err := Open(Options{DataDir: t.TempDir(), Config: cfg}); err == nil {
		t.Fatalf("open with invalid config succeeded")
	}
}

func TestImportAndList(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Decode = true
	rt := openRuntime(t, cfg)
	ctx := context.Background()

	meta, stats, err := rt.Import(ctx, writeLog(t, sampleLog), "boot")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if meta.Events != 2 || stats.Lines != 3 {
		t.Fatalf("meta=%+v stats=%+v", meta, stats)
	}
	metas, err := rt.Archives()
	if err != nil {
		t.Fatalf("archives: %v", err)
	}
	if len(metas) != 1 || metas[0].Name != "boot" {
		t.Fatalf("archives = %+v", metas)
	}
	a, err := rt.OpenArchive("boot")
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	seq, err := a.Load(rt.Registry())
	if err != nil {
		t.Fatalf("load archive: %v", err)
	}
	if seq.Len() != 2 || seq.At(1).ThreadID != 43 {
		t.Fatalf("unexpected archived sequence")
	}
}

func TestImportWithoutDecodersStoresNothing(t *testing.T) {
	rt := openRuntime(t, cfgpkg.Default())
	meta, stats, err := rt.Import(context.Background(), writeLog(t, sampleLog), "boot")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if meta.Events != 0 || stats.IgnoredLines != 2 {
		t.Fatalf("meta=%+v stats=%+v", meta, stats)
	}
}

func TestImportReportsParseErrors(t *testing.T) {
	rt := openRuntime(t, cfgpkg.Default())
	_, _, err := rt.Import(context.Background(), writeLog(t, "Dunfell log,2.0,1\n"), "bad")
	if !errors.Is(err, parser.ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
	if metas, _ := rt.Archives(); len(metas) != 0 {
		t.Fatalf("failed import stored an archive")
	}
}
