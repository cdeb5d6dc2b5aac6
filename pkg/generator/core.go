package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// GeminiImageCore は入力画像のパーツ化、リクエスト実行、レスポンス解析を担う基盤です。
type GeminiImageCore struct {
	aiClient    gemini.GenerativeModel
	inlineLimit int
}

// NewGeminiImageCore は依存関係を注入して GeminiImageCore を初期化します。
func NewGeminiImageCore(aiClient gemini.GenerativeModel) (*GeminiImageCore, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	return &GeminiImageCore{aiClient: aiClient, inlineLimit: InlineDataLimit}, nil
}

// prepareImagePart は画像をパーツに変換します。
// inlineLimit を超える画像は File API にアップロードし、返される cleanup で削除します。
func (c *GeminiImageCore) prepareImagePart(ctx context.Context, data []byte, mimeType string) (*genai.Part, func(), error) {
	if len(data) <= c.inlineLimit {
		return toPart(data, mimeType), func() {}, nil
	}

	uri, name, err := c.aiClient.UploadFile(ctx, data, mimeType, "edit-source")
	if err != nil {
		return nil, nil, fmt.Errorf("File API へのアップロードに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "入力画像を File API にアップロードしました", "name", name, "bytes", len(data))

	cleanup := func() {
		// 呼び出し元のキャンセルに関係なく削除する
		if err := c.aiClient.DeleteFile(context.WithoutCancel(ctx), name); err != nil {
			slog.WarnContext(ctx, "File API 上のファイル削除に失敗しました", "name", name, "error", err)
		}
	}
	return &genai.Part{FileData: &genai.FileData{FileURI: uri, MIMEType: mimeType}}, cleanup, nil
}
