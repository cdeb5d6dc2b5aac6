package generator

import (
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

func (c *GeminiImageCore) executeRequest(ctx context.Context, model string, parts []*genai.Part) (*ImageOutput, error) {
	resp, err := c.aiClient.GenerateWithParts(ctx, model, parts, gemini.GenerateOptions{})
	if err != nil {
		return nil, err
	}
	return parseToResponse(resp)
}

func toPart(data []byte, mimeType string) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

// parseToResponse は最初の候補から最初の画像パーツを取り出します。
// 画像がなく正常終了している場合は (nil, nil) です。
func parseToResponse(resp *gemini.Response) (*ImageOutput, error) {
	if resp == nil || resp.RawResponse == nil {
		return nil, fmt.Errorf("invalid response")
	}
	raw := resp.RawResponse
	if raw.PromptFeedback != nil && raw.PromptFeedback.BlockReason != "" {
		return nil, &BlockedError{Reason: string(raw.PromptFeedback.BlockReason)}
	}
	if len(raw.Candidates) == 0 {
		return nil, nil
	}

	// 現在の仕様では最初の候補のみを利用する。
	candidate := raw.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageOutput{Data: part.InlineData.Data, MimeType: part.InlineData.MIMEType}, nil
			}
		}
	}

	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, &BlockedError{Reason: string(candidate.FinishReason)}
	}
	return nil, nil
}

// parseImagenResponse は Imagen の最初の生成画像を取り出します。
func parseImagenResponse(resp *genai.GenerateImagesResponse) *ImageOutput {
	if resp == nil {
		return nil
	}
	for _, img := range resp.GeneratedImages {
		if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
			continue
		}
		mimeType := img.Image.MIMEType
		if mimeType == "" {
			mimeType = generateOutputMIMEType
		}
		return &ImageOutput{Data: img.Image.ImageBytes, MimeType: mimeType}
	}
	return nil
}
