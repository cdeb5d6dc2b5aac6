package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/shouni/gemini-image-studio/pkg/domain"
)

const (
	// PreviewCompressThreshold を超えるアップロードはプレビュー用に JPEG へ再圧縮します。
	PreviewCompressThreshold = 1 << 20
	PreviewQuality           = 75
)

// Preview はアップロード画像の表示用 data URI を作成します。
// 送信用のデータ (Encode) には影響しません。
func Preview(f domain.File) (string, error) {
	data, err := readAll(f)
	if err != nil {
		return "", err
	}

	if len(data) > PreviewCompressThreshold {
		compressed, err := reencodeJPEG(data, PreviewQuality)
		if err == nil {
			return DataURI("image/jpeg", compressed), nil
		}
		// デコードできない場合は元データのまま表示する
		slog.Warn("プレビューの圧縮に失敗しました", "name", f.Name(), "error", err)
	}
	return DataURI(f.MIMEType(), data), nil
}

// reencodeJPEG は image.Decode が扱える画像を JPEG にします。
// JPEG は透過を持たないため、透過部分は白で塗りつぶします。
func reencodeJPEG(data []byte, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var img image.Image = src
	if !isOpaque(src) {
		bounds := src.Bounds()
		flat := image.NewRGBA(bounds)
		draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(flat, bounds, src, bounds.Min, draw.Over)
		img = flat
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}
