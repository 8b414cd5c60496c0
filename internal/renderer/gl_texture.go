package renderer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"Lumen3D/internal/logger"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
)

// maxTextureSize caps uploaded image dimensions. Larger images are
// downscaled before upload.
const maxTextureSize = 4096

// GLTexture wraps a GL texture object, 2D or cubemap.
type GLTexture struct {
	id     uint32
	target uint32
	width  int32
	height int32
}

func (t *GLTexture) Bind(slot uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(t.target, t.id)
}

func (t *GLTexture) Size() (int32, int32) { return t.width, t.height }

func (t *GLTexture) GenerateMipmaps() {
	gl.BindTexture(t.target, t.id)
	gl.GenerateMipmap(t.target)
	gl.TexParameteri(t.target, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
}

func (t *GLTexture) Delete() {
	gl.DeleteTextures(1, &t.id)
}

// TextureManager loads and caches file textures. Repeat loads of the same
// path return the cached texture.
type TextureManager struct {
	mu    sync.Mutex
	cache map[string]*GLTexture
}

func NewTextureManager() *TextureManager {
	return &TextureManager{cache: make(map[string]*GLTexture)}
}

// Load decodes an image file and uploads it as a mipmapped 2D texture.
func (tm *TextureManager) Load(filePath string) (*GLTexture, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tex, ok := tm.cache[filePath]; ok {
		return tex, nil
	}

	imgFile, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}

	rgba := toRGBA(img)
	tex := NewGLTextureFromRGBA(rgba)
	tm.cache[filePath] = tex

	logger.Log.Info("texture loaded",
		zap.String("path", filePath),
		zap.Int32("width", tex.width), zap.Int32("height", tex.height))
	return tex, nil
}

// toRGBA converts any decoded image to RGBA, downscaling with Catmull-Rom
// when it exceeds the upload cap.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxTextureSize || h > maxTextureSize {
		scale := float64(maxTextureSize) / float64(w)
		if h > w {
			scale = float64(maxTextureSize) / float64(h)
		}
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, xdraw.Src, nil)
	return rgba
}

// NewGLTextureFromRGBA uploads a prepared RGBA image with mipmaps.
func NewGLTextureFromRGBA(rgba *image.RGBA) *GLTexture {
	w := int32(rgba.Rect.Size().X)
	h := int32(rgba.Rect.Size().Y)

	tex := &GLTexture{target: gl.TEXTURE_2D, width: w, height: h}
	gl.GenTextures(1, &tex.id)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	return tex
}
