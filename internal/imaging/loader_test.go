package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"testing"
)

// createTestImage creates a solid-color test image file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp("", "test-radiograph-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

func TestImageCacheLoad(t *testing.T) {
	path := createTestImage(t, 50, 40, color.White)
	defer os.Remove(path)

	cache := NewImageCache()

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if img1.Bounds().Dx() != 50 || img1.Bounds().Dy() != 40 {
		t.Errorf("got dimensions %dx%d, want 50x40", img1.Bounds().Dx(), img1.Bounds().Dy())
	}

	// Second load must come from the cache: removing the file first proves it.
	os.Remove(path)
	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if img2 != img1 {
		t.Error("cached load returned a different image instance")
	}
}

func TestImageCacheLoadMissingFile(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/radiograph.png"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestImageCacheEvictAndClear(t *testing.T) {
	path := createTestImage(t, 10, 10, color.Black)
	defer os.Remove(path)

	cache := NewImageCache()
	if _, err := cache.Load(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cache.Evict(path)
	if _, ok := cache.images[path]; ok {
		t.Error("image still cached after Evict")
	}

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	cache.Clear()
	if len(cache.images) != 0 {
		t.Errorf("cache holds %d images after Clear, want 0", len(cache.images))
	}

	// Evicting an uncached path is a no-op, not a panic.
	cache.Evict("/never/loaded.png")
}

func TestImageCacheConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 20, 20, color.White)
	defer os.Remove(path)

	cache := NewImageCache()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				t.Errorf("concurrent load failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 64, 32, color.White)
	defer os.Remove(path)

	cache := NewImageCache()
	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 64 || info.Height != 32 {
		t.Errorf("got %dx%d, want 64x32", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("got format %q, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("got file size %d, want > 0", info.FileSizeBytes)
	}
}

func TestGetDimensions(t *testing.T) {
	path := createTestImage(t, 128, 96, color.Black)
	defer os.Remove(path)

	cache := NewImageCache()
	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 128 || dims.Height != 96 {
		t.Errorf("got %dx%d, want 128x96", dims.Width, dims.Height)
	}
}
