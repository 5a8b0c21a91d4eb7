// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging generates thumbnails for uploaded images. Sources are
// decoded from JPEG, PNG, GIF or WebP and scaled down with Catmull-Rom
// resampling; thumbnails wider than the source are never upscaled.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ThumbWidth is the target width of generated thumbnails in pixels.
const ThumbWidth = 320

// jpegQuality is the encode quality for thumbnail output.
const jpegQuality = 80

// Thumb holds one generated thumbnail ready for upload.
type Thumb struct {
	Width       int
	Height      int
	Data        []byte // JPEG-encoded image bytes
	ContentType string // always "image/jpeg"
}

// Supported reports whether a content type can be thumbnailed.
func Supported(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

// Thumbnail decodes the source image and scales it down to at most
// ThumbWidth pixels wide, preserving aspect ratio. Sources already
// narrower than ThumbWidth are re-encoded at their original size.
func Thumbnail(original []byte) (*Thumb, error) {
	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imaging: empty image")
	}

	targetW := ThumbWidth
	if width <= targetW {
		targetW = width
	}
	targetH := height * targetW / width
	if targetH < 1 {
		targetH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}

	return &Thumb{
		Width:       targetW,
		Height:      targetH,
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
	}, nil
}
