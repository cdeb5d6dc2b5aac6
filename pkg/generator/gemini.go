package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"google.golang.org/genai"
)

// GeminiService は Imagen（テキストから生成）と Gemini 画像モデル（画像の変換）を
// ImageService としてまとめるアダプターです。
type GeminiService struct {
	imgCore    *GeminiImageCore
	imagen     ImagenModel
	imageModel string
	editModel  string
}

// Option は GeminiService の設定を変更します。
type Option func(*GeminiService)

// WithImageModel はテキストからの生成に使うモデルを指定します。
func WithImageModel(model string) Option {
	return func(s *GeminiService) {
		if model != "" {
			s.imageModel = model
		}
	}
}

// WithEditModel は画像変換に使うモデルを指定します。
func WithEditModel(model string) Option {
	return func(s *GeminiService) {
		if model != "" {
			s.editModel = model
		}
	}
}

// NewGeminiService は GeminiImageCore と Imagen クライアントを注入して初期化します。
func NewGeminiService(core *GeminiImageCore, imagen ImagenModel, opts ...Option) (*GeminiService, error) {
	if core == nil {
		return nil, fmt.Errorf("core (GeminiImageCore) is required")
	}
	if imagen == nil {
		return nil, fmt.Errorf("imagen (ImagenModel) is required")
	}
	s := &GeminiService{
		imgCore:    core,
		imagen:     imagen,
		imageModel: DefaultImageModel,
		editModel:  DefaultEditModel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateFromText は Imagen に 1 枚の画像生成を依頼します。
func (s *GeminiService) GenerateFromText(ctx context.Context, prompt string, aspectRatio domain.AspectRatio) (*domain.ImageResponse, error) {
	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: generateOutputMIMEType,
		AspectRatio:    string(aspectRatio),
	}

	resp, err := s.imagen.GenerateImages(ctx, s.imageModel, prompt, config)
	if err != nil {
		logServiceError(ctx, "テキストからの画像生成に失敗しました", s.imageModel, err)
		return nil, &ServiceError{Kind: ErrGeneration, Err: err}
	}

	out := parseImagenResponse(resp)
	if out == nil {
		slog.InfoContext(ctx, "Imagen は画像を返しませんでした", "model", s.imageModel)
		return nil, nil
	}
	return &domain.ImageResponse{Data: out.Data, MimeType: out.MimeType}, nil
}

// EditFromImage は入力画像とプロンプトを Gemini に送り、最初の画像パーツを結果とします。
func (s *GeminiService) EditFromImage(ctx context.Context, prompt string, imageBase64 string, mimeType string) (*domain.ImageResponse, error) {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, &ServiceError{Kind: ErrEdit, Err: fmt.Errorf("入力画像の base64 が不正です: %w", err)}
	}

	imgPart, cleanup, err := s.imgCore.prepareImagePart(ctx, data, mimeType)
	if err != nil {
		logServiceError(ctx, "入力画像の準備に失敗しました", s.editModel, err)
		return nil, &ServiceError{Kind: ErrEdit, Err: err}
	}
	defer cleanup()

	parts := []*genai.Part{imgPart, {Text: prompt}}

	out, err := s.imgCore.executeRequest(ctx, s.editModel, parts)
	if err != nil {
		logServiceError(ctx, "画像の変換に失敗しました", s.editModel, err)
		return nil, &ServiceError{Kind: ErrEdit, Err: err}
	}
	if out == nil {
		slog.InfoContext(ctx, "Gemini のレスポンスに画像パーツがありませんでした", "model", s.editModel)
		return nil, nil
	}
	return &domain.ImageResponse{Data: out.Data, MimeType: out.MimeType}, nil
}

func logServiceError(ctx context.Context, msg, model string, err error) {
	attrs := []any{"model", model, "error", err}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, "status_code", apiErr.Code, "status", apiErr.Status)
	}
	slog.ErrorContext(ctx, msg, attrs...)
}

var _ ImageService = (*GeminiService)(nil)
