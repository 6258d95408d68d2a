package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder (map tile captures)

	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Source is a decoded map image ready for the pipeline.
type Source struct {
	// Raster holds the fitted source pixels. Callers must Clone it before
	// running anything destructive.
	Raster *raster.Raster

	// Info describes the source.
	Info SourceInfo
}

// SourceInfo contains metadata about a loaded source image.
type SourceInfo struct {
	// Width and Height are the dimensions of the fitted raster.
	Width  int `json:"width"`
	Height int `json:"height"`

	// OriginalWidth and OriginalHeight are the decoded dimensions before
	// fitting.
	OriginalWidth  int `json:"original_width"`
	OriginalHeight int `json:"original_height"`

	// Format is the decoder name reported by image.Decode ("png", "jpeg",
	// "gif", "webp").
	Format string `json:"format"`

	// Fitted reports whether the source was downscaled to the size cap.
	Fitted bool `json:"fitted"`
}

// SourceCache provides thread-safe caching of loaded sources to avoid
// redundant disk reads and resizes.
//
// Entries are keyed by path and size cap. The cached raster is shared, so
// callers must treat it as read-only.
//
// # Example Usage
//
//	cache := imaging.NewSourceCache()
//	src, err := cache.Load("/path/to/map.png", 1280)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := pipeline.Process(src.Raster, settings)
type SourceCache struct {
	mu      sync.RWMutex
	sources map[cacheKey]*Source
}

type cacheKey struct {
	path   string
	maxDim int
}

// NewSourceCache creates and initializes a new empty source cache.
func NewSourceCache() *SourceCache {
	return &SourceCache{
		sources: make(map[cacheKey]*Source),
	}
}

// Load retrieves a source from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path. Supported formats are PNG, JPEG,
//     GIF and WebP. EXIF orientation is applied.
//   - maxDim: Longest allowed side in pixels; larger images are downscaled
//     with Lanczos filtering. Zero or less disables fitting.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func (c *SourceCache) Load(path string, maxDim int) (*Source, error) {
	key := cacheKey{path: path, maxDim: maxDim}

	c.mu.RLock()
	if src, ok := c.sources[key]; ok {
		c.mu.RUnlock()
		return src, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	src, err := Decode(data, maxDim)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sources[key] = src
	c.mu.Unlock()

	return src, nil
}

// Clear removes all sources from the cache.
func (c *SourceCache) Clear() {
	c.mu.Lock()
	c.sources = make(map[cacheKey]*Source)
	c.mu.Unlock()
}

// Evict removes every cached entry for path.
func (c *SourceCache) Evict(path string) {
	c.mu.Lock()
	for k := range c.sources {
		if k.path == path {
			delete(c.sources, k)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *SourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// Decode decodes an encoded image and fits it into maxDim.
func Decode(data []byte, maxDim int) (*Source, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return newSource(img, format, maxDim)
}

// DecodeBase64 decodes a base64 image, with or without a data URL prefix
// such as "data:image/png;base64,".
func DecodeBase64(s string, maxDim int) (*Source, error) {
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return Decode(data, maxDim)
}

// FromImage wraps an already decoded image as a source.
func FromImage(img image.Image, maxDim int) (*Source, error) {
	return newSource(img, "memory", maxDim)
}

func newSource(img image.Image, format string, maxDim int) (*Source, error) {
	b := img.Bounds()
	fitted := Fit(img, maxDim)

	r, err := raster.FromImage(fitted)
	if err != nil {
		return nil, err
	}

	return &Source{
		Raster: r,
		Info: SourceInfo{
			Width:          r.Width,
			Height:         r.Height,
			OriginalWidth:  b.Dx(),
			OriginalHeight: b.Dy(),
			Format:         format,
			Fitted:         r.Width != b.Dx() || r.Height != b.Dy(),
		},
	}, nil
}

// Fit scales img down, preserving its aspect ratio, so that neither side
// exceeds maxDim. Images already within the cap, and maxDim <= 0, return
// img unchanged.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}
