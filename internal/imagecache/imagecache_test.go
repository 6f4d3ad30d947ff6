package imagecache

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"badge-engine/internal/icons"
)

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func writeIcon(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func newTestCache(folder string) *Cache {
	return New(folder, 1<<20, time.Minute, 0)
}

func TestResolveBuiltInOnly(t *testing.T) {
	c := newTestCache("")
	defer c.Close()
	ctx := context.Background()

	img, err := c.Resolve(ctx, "eng", icons.TypeLanguage, icons.LoadBuiltInOnly)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if img == nil {
		t.Fatal("expected embedded lang eng icon")
	}

	img, err = c.Resolve(ctx, "does-not-exist", icons.TypeLanguage, icons.LoadBuiltInOnly)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if img != nil {
		t.Error("expected absent result for unknown icon")
	}
}

func TestResolveIdempotent(t *testing.T) {
	c := newTestCache("")
	defer c.Close()
	ctx := context.Background()

	first, err := c.Resolve(ctx, "eng", icons.TypeLanguage, icons.LoadBuiltInOnly)
	if err != nil || first == nil {
		t.Fatalf("first Resolve = %v, %v", first, err)
	}
	second, err := c.Resolve(ctx, "eng", icons.TypeLanguage, icons.LoadBuiltInOnly)
	if err != nil || second == nil {
		t.Fatalf("second Resolve = %v, %v", second, err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Resolve should decode bit-identical output")
	}
}

func TestResolveCustomFolder(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, dir, "lang.eng.png", pngBytes(t, color.NRGBA{R: 255, A: 255}))

	c := newTestCache(dir)
	defer c.Close()

	img, err := c.Resolve(context.Background(), "eng", icons.TypeLanguage, icons.LoadCustomOnly)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if img == nil {
		t.Fatal("expected custom icon")
	}
	if got := img.Bounds().Dx(); got != 4 {
		t.Errorf("custom icon width = %d, want 4", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 cached entry", c.Len())
	}
}

func TestResolveCustomOnlyDoesNotFallBack(t *testing.T) {
	c := newTestCache(t.TempDir())
	defer c.Close()

	// eng exists in the embedded bundle but must not be consulted.
	img, err := c.Resolve(context.Background(), "eng", icons.TypeLanguage, icons.LoadCustomOnly)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if img != nil {
		t.Error("CustomOnly must not fall back to embedded resources")
	}
}

func TestResolveDefaultFallsBackToEmbedded(t *testing.T) {
	c := newTestCache(t.TempDir())
	defer c.Close()

	img, err := c.Resolve(context.Background(), "eng", icons.TypeLanguage, icons.LoadCustomThenBuiltIn)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if img == nil {
		t.Error("default mode should fall back to the embedded bundle")
	}
}

func TestResolveCustomWinsOverEmbedded(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, dir, "lang.eng.png", pngBytes(t, color.NRGBA{G: 255, A: 255}))

	c := newTestCache(dir)
	defer c.Close()

	img, err := c.Resolve(context.Background(), "eng", icons.TypeLanguage, icons.LoadCustomThenBuiltIn)
	if err != nil || img == nil {
		t.Fatalf("Resolve = %v, %v", img, err)
	}
	// The custom icon is 4x4; the embedded one is 8x8.
	if got := img.Bounds().Dx(); got != 4 {
		t.Errorf("expected the custom icon to win, got width %d", got)
	}
}

func TestCorruptCustomFileFallsThrough(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, dir, "lang.eng.png", []byte("not an image"))

	c := newTestCache(dir)
	defer c.Close()

	img, err := c.Resolve(context.Background(), "eng", icons.TypeLanguage, icons.LoadCustomThenBuiltIn)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if img == nil {
		t.Error("corrupt custom bytes should fall through to embedded")
	}
}

func TestEmptyFileNotCached(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, dir, "lang.eng.png", nil)

	c := newTestCache(dir)
	defer c.Close()

	img, err := c.Resolve(context.Background(), "eng", icons.TypeLanguage, icons.LoadCustomOnly)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if img != nil {
		t.Error("empty read should be treated as not found")
	}
	if c.Len() != 0 {
		t.Errorf("empty read must not be cached, Len() = %d", c.Len())
	}
}

func TestEmbeddedFallbackChain(t *testing.T) {
	c := newTestCache("")
	defer c.Close()
	ctx := context.Background()

	tests := []struct {
		name string
		typ  icons.Type
		note string
	}{
		// Split on the first dot into head and tail.
		{"lang.eng", icons.TypeLanguage, "dot-split fallback"},
		// Split on the first underscore, keeping the type prefix.
		{"xx_dts", icons.TypeAudioCodec, "underscore-tail fallback"},
		// Bare lookup without prefix.
		{"lang_eng", icons.TypeTag, "bare fallback"},
	}
	for _, tt := range tests {
		img, err := c.Resolve(ctx, tt.name, tt.typ, icons.LoadBuiltInOnly)
		if err != nil {
			t.Fatalf("%s: Resolve error: %v", tt.note, err)
		}
		if img == nil {
			t.Errorf("%s: Resolve(%q, %s) should find an embedded icon", tt.note, tt.name, tt.typ)
		}
	}
}

func TestResolveCancellation(t *testing.T) {
	c := newTestCache("")
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Resolve(ctx, "eng", icons.TypeLanguage, icons.LoadBuiltInOnly)
	if err == nil {
		t.Error("cancelled context should propagate its error")
	}
}

func TestSetFolderSwapIsolation(t *testing.T) {
	oldDir := t.TempDir()
	writeIcon(t, oldDir, "lang.eng.png", pngBytes(t, color.NRGBA{B: 255, A: 255}))

	c := newTestCache(oldDir)
	defer c.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := c.Resolve(ctx, "eng", icons.TypeLanguage, icons.LoadCustomOnly); err != nil {
					t.Errorf("Resolve during swap: %v", err)
					return
				}
			}
		}()
	}

	newDir := t.TempDir()
	c.SetFolder(newDir)
	wg.Wait()

	if got := c.Folder(); got != newDir {
		t.Errorf("Folder() = %q, want %q", got, newDir)
	}
	// The fresh instance sees the new (empty) folder only.
	img, err := c.Resolve(ctx, "eng", icons.TypeLanguage, icons.LoadCustomOnly)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if img != nil {
		t.Error("new folder has no icons; resolve should miss")
	}
}
