package generator

import (
	"context"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"google.golang.org/genai"
)

// ImageService はコントローラーが依存する画像生成の外部境界です。
// どちらの操作も、画像が得られなかった場合は (nil, nil) を返します。
type ImageService interface {
	// GenerateFromText はプロンプトとアスペクト比から画像を 1 枚生成します。
	GenerateFromText(ctx context.Context, prompt string, aspectRatio domain.AspectRatio) (*domain.ImageResponse, error)
	// EditFromImage は base64 画像をプロンプトに沿って変換します。
	EditFromImage(ctx context.Context, prompt string, imageBase64 string, mimeType string) (*domain.ImageResponse, error)
}

// ImagenModel は Imagen によるテキストからの画像生成を抽象化します。
type ImagenModel interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}
