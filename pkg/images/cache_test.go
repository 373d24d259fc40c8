package images

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestCacheLoadAndPeek(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "a.png")
	cache := NewCache()

	if _, ok := cache.Peek(path); ok {
		t.Fatal("peek hit before any load")
	}

	img, err := cache.Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())

	peeked, ok := cache.Peek(path)
	require.True(t, ok)
	require.Equal(t, img, peeked)
}

func TestCacheLoadMissingFile(t *testing.T) {
	cache := NewCache()
	_, err := cache.Load(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}

// recordingResponder collects availability notifications.
type recordingResponder struct {
	available chan string
}

func (r *recordingResponder) ImageAvailable(path string) {
	r.available <- path
}

func TestLocalCacheNotifiesResponder(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeTestPNG(t, t.TempDir(), "a.png")
	local := NewLocalCache(NewCache())
	responder := &recordingResponder{available: make(chan string, 4)}
	local.NextRound(responder)

	if _, ok := local.Get(path); ok {
		t.Fatal("first get hit before the background load")
	}

	select {
	case got := <-responder.available:
		require.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no availability notification arrived")
	}

	// The image is now in the shared cache; the next get hits.
	img, ok := local.Get(path)
	require.True(t, ok)
	require.NotNil(t, img)
}

func TestLocalCacheStaleRoundDoesNotNotify(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "a.png")

	shared := NewCache()
	local := NewLocalCache(shared)
	responder := &recordingResponder{available: make(chan string, 4)}
	local.NextRound(responder)

	local.Get(path)
	// A new round starts before the load lands; the old round's
	// responder must stay silent.
	local.NextRound(&recordingResponder{available: make(chan string, 4)})

	deadline := time.After(5 * time.Second)
	for {
		if _, ok := shared.Peek(path); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("background load never completed")
		case <-time.After(time.Millisecond):
		}
	}
	select {
	case got := <-responder.available:
		t.Fatalf("stale round notified for %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalCacheFailedLoadStaysPendingSilently(t *testing.T) {
	local := NewLocalCache(NewCache())
	responder := &recordingResponder{available: make(chan string, 4)}
	local.NextRound(responder)

	local.Get(filepath.Join(t.TempDir(), "missing.png"))

	select {
	case got := <-responder.available:
		t.Fatalf("notified for a load that failed: %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPrefetch(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "a.png")
	b := writeTestPNG(t, dir, "b.png")

	shared := NewCache()
	local := NewLocalCache(shared)
	require.NoError(t, local.Prefetch([]string{a, b}))

	for _, path := range []string{a, b} {
		if _, ok := shared.Peek(path); !ok {
			t.Errorf("prefetch left %q uncached", path)
		}
	}

	require.Error(t, local.Prefetch([]string{filepath.Join(dir, "nope.png")}))
}
