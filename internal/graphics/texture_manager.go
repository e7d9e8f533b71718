package graphics

import (
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// TextureCache shares texture objects between meshes that reference the same file.
// Files that fail to load resolve to a placeholder texture.
type TextureCache struct {
	log         *slog.Logger
	textures    map[string]uint32
	placeholder uint32
	load        func(path string) (uint32, error)
}

// NewTextureCache creates an empty cache that loads files with LoadTexture
func NewTextureCache(logger *slog.Logger) *TextureCache {
	return &TextureCache{
		log:      logger,
		textures: make(map[string]uint32),
		load: func(path string) (uint32, error) {
			tex, _, _, err := LoadTexture(path)
			return tex, err
		},
	}
}

// Get returns a cached texture ID for the given path.
// If the texture is already loaded, it returns the cached ID.
// Otherwise, it loads the texture from disk and caches it.
func (c *TextureCache) Get(path string) uint32 {
	if tex, ok := c.textures[path]; ok {
		return tex
	}

	tex, err := c.load(path)
	if err != nil {
		c.log.Warn("texture load failed, using placeholder", "path", path, "err", err)
		tex = c.Placeholder()
	}

	c.textures[path] = tex
	return tex
}

// Placeholder returns the shared 1x1 white texture
func (c *TextureCache) Placeholder() uint32 {
	if c.placeholder == 0 {
		c.placeholder = PlaceholderTexture()
	}
	return c.placeholder
}

// Dispose deletes every cached texture
func (c *TextureCache) Dispose() {
	seen := make(map[uint32]bool)
	for _, tex := range c.textures {
		if tex != 0 && !seen[tex] {
			seen[tex] = true
			gl.DeleteTextures(1, &tex)
		}
	}
	if c.placeholder != 0 && !seen[c.placeholder] {
		gl.DeleteTextures(1, &c.placeholder)
	}
	c.textures = make(map[string]uint32)
	c.placeholder = 0
}
