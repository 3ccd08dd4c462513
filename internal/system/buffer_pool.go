package system

import (
	"image"
	"sync"
)

// ImagePool recycles *image.RGBA buffers keyed by their bounds so preview
// rendering does not allocate a frame per call.
type ImagePool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewImagePool()

// NewImagePool creates an empty pool
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[string]*sync.Pool)}
}

// GetImage returns a buffer with the given bounds from the shared pool. The
// contents are undefined; callers overwrite every pixel.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage hands a buffer back to the shared pool
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put ignores buffers whose size was never handed out
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
