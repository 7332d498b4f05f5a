package stitch

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// DefaultGap はパネル間に挟む余白のピクセル数です。
const DefaultGap = 20

// DefaultJPEGQuality はリリースアセット用に再圧縮するときの品質です。
const DefaultJPEGQuality = 85

// Compose は複数のパネル画像を高さを揃えて左から右へ連結し、1枚の合成画像を返します。
// 最大の高さを基準に、他の画像はアスペクト比を保ったまま CatmullRom で拡縮するのだ。
func Compose(panels [][]byte, gap int) (image.Image, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("stitch: 合成するパネルが1枚もありません")
	}

	decoded := make([]image.Image, 0, len(panels))
	targetHeight := 0
	for i, data := range panels {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("stitch: パネル %d のデコードに失敗しました: %w", i+1, err)
		}
		decoded = append(decoded, img)
		if h := img.Bounds().Dy(); h > targetHeight {
			targetHeight = h
		}
	}

	resized := make([]image.Image, 0, len(decoded))
	totalWidth := 0
	for _, img := range decoded {
		scaled := scaleToHeight(img, targetHeight)
		resized = append(resized, scaled)
		totalWidth += scaled.Bounds().Dx()
	}
	totalWidth += gap * (len(resized) - 1)

	canvas := image.NewRGBA(image.Rect(0, 0, totalWidth, targetHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	x := 0
	for _, img := range resized {
		w := img.Bounds().Dx()
		draw.Draw(canvas, image.Rect(x, 0, x+w, targetHeight), img, img.Bounds().Min, draw.Over)
		x += w + gap
	}

	return canvas, nil
}

// scaleToHeight は画像をアスペクト比を保ったまま target の高さに合わせます。
// すでに一致している場合は元の画像をそのまま返します。
func scaleToHeight(img image.Image, target int) image.Image {
	bounds := img.Bounds()
	if bounds.Dy() == target {
		return img
	}

	ratio := float64(target) / float64(bounds.Dy())
	newWidth := int(float64(bounds.Dx()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, target))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// EncodePNG は合成画像を可逆のPNGとしてエンコードします。
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("stitch: PNGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG は画像を指定品質のJPEGとしてエンコードします。
// リリースアセットのサイズ削減に使うのだ。
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("stitch: JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// CompressPNGToJPEG はPNGバイト列を読み直してJPEGに再圧縮します。
func CompressPNGToJPEG(pngData []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("stitch: 合成画像のデコードに失敗しました: %w", err)
	}
	return EncodeJPEG(img, quality)
}
