package graphics

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// CubemapFaces are the face file names in GL_TEXTURE_CUBE_MAP_POSITIVE_X order
var CubemapFaces = [6]string{"right", "left", "top", "bottom", "front", "back"}

// DecodeImage reads an image file and converts it to RGBA
func DecodeImage(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

// FlipVertical mirrors an image top to bottom, since GL expects the first row at the bottom
func FlipVertical(img *image.RGBA) *image.RGBA {
	bounds := img.Bounds()
	height := bounds.Dy()
	flipped := image.NewRGBA(bounds)
	stride := img.Stride
	for y := 0; y < height; y++ {
		src := img.Pix[y*stride : (y+1)*stride]
		dst := flipped.Pix[(height-1-y)*stride : (height-y)*stride]
		copy(dst, src)
	}
	return flipped
}

// LoadTexture loads a mipmapped, repeating 2D texture from a file
func LoadTexture(path string) (uint32, int, int, error) {
	rgba, err := DecodeImage(path)
	if err != nil {
		return 0, 0, 0, err
	}
	rgba = FlipVertical(rgba)

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(rgba.Rect.Size().X),
		int32(rgba.Rect.Size().Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	return texture, rgba.Rect.Size().X, rgba.Rect.Size().Y, nil
}

// CubemapPaths returns the six face paths for dir and a file extension such as "png"
func CubemapPaths(dir, ext string) [6]string {
	var paths [6]string
	for i, face := range CubemapFaces {
		paths[i] = filepath.Join(dir, face+"."+ext)
	}
	return paths
}

// LoadCubemap loads six face images into a cube map texture. Any unreadable face fails the whole load.
func LoadCubemap(paths [6]string) (uint32, error) {
	var faces [6]*image.RGBA
	for i, p := range paths {
		img, err := DecodeImage(p)
		if err != nil {
			return 0, fmt.Errorf("cubemap face %s: %w", CubemapFaces[i], err)
		}
		faces[i] = img
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, texture)

	// Cube map faces are sampled with their first row at the top, so no flip here
	for i, img := range faces {
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i),
			0,
			gl.RGBA,
			int32(img.Rect.Size().X),
			int32(img.Rect.Size().Y),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix),
		)
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return texture, nil
}

// PlaceholderTexture creates a 1x1 opaque white texture
func PlaceholderTexture() uint32 {
	pix := []uint8{255, 255, 255, 255}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}
