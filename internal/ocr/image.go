package ocr

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	// Decoders registered for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxUploadBytes caps the size of an uploaded image
const DefaultMaxUploadBytes int64 = 10 << 20

// Image is an image payload selected in file mode
type Image struct {
	Name string
	Data []byte
}

// ImageInfo describes an image as seen by the local decoders
type ImageInfo struct {
	Format      string `json:"format,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Size        int    `json:"size"`
	ContentType string `json:"content_type"`
}

// String renders a short description such as "png 640x480, 12.3 KB"
func (i *ImageInfo) String() string {
	size := formatBytes(i.Size)
	if i.Format == "" {
		return fmt.Sprintf("%s, %s", i.ContentType, size)
	}
	return fmt.Sprintf("%s %dx%d, %s", i.Format, i.Width, i.Height, size)
}

// LoadImage reads an image file for upload. Files larger than maxBytes and
// files that are neither decodable nor sniffed as images are rejected.
func LoadImage(path string, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open image: %w", err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if st.Size() > maxBytes {
		return nil, fmt.Errorf("image is %s, larger than the %s limit", formatBytes(int(st.Size())), formatBytes(int(maxBytes)))
	}

	// #nosec G304 - path is chosen by the user of the form
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read image: %w", err)
	}

	img := &Image{Name: filepath.Base(path), Data: data}
	if _, err := img.Inspect(); err != nil {
		return nil, err
	}
	return img, nil
}

// FileName returns the name sent in the multipart part
func (img *Image) FileName() string {
	if img.Name == "" {
		return "image"
	}
	return img.Name
}

// ContentType sniffs the MIME type of the payload
func (img *Image) ContentType() string {
	return http.DetectContentType(img.Data)
}

// Inspect decodes the image header. Payloads the local decoders do not
// understand are accepted as long as they sniff as an image type.
func (img *Image) Inspect() (*ImageInfo, error) {
	info := &ImageInfo{
		Size:        len(img.Data),
		ContentType: img.ContentType(),
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err == nil {
		info.Format = format
		info.Width = cfg.Width
		info.Height = cfg.Height
		return info, nil
	}

	if strings.HasPrefix(info.ContentType, "image/") {
		return info, nil
	}
	return nil, fmt.Errorf("%s does not look like an image (%s)", img.FileName(), info.ContentType)
}

func formatBytes(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
