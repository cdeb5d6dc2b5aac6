package domain

import "time"

// GenerationRequest は Mode をタグに持つ画像生成要求の直和型です。
// 実装は GenerateRequest と EditRequest の 2 つだけで、パッケージ外からは追加できません。
type GenerationRequest interface {
	Mode() Mode
	Validate() error
	isGenerationRequest()
}

// GenerateRequest はテキストから新規画像を生成する要求です。
type GenerateRequest struct {
	Prompt      string
	AspectRatio AspectRatio
}

func (GenerateRequest) Mode() Mode { return ModeGenerate }

// Validate はプロンプトとアスペクト比を検証します。
func (r GenerateRequest) Validate() error {
	if r.Prompt == "" {
		return ErrEmptyPrompt
	}
	if !r.AspectRatio.Valid() {
		return ErrInvalidAspectRatio
	}
	return nil
}

func (GenerateRequest) isGenerationRequest() {}

// EditRequest はアップロード画像をプロンプトに沿って変換する要求です。
type EditRequest struct {
	Prompt string
	Image  EncodedImage
}

func (EditRequest) Mode() Mode { return ModeEdit }

// Validate はプロンプトと画像ペイロードを検証します。
func (r EditRequest) Validate() error {
	if r.Prompt == "" {
		return ErrEmptyPrompt
	}
	if r.Image.Base64 == "" || r.Image.MIMEType == "" {
		return ErrImageRequired
	}
	return nil
}

func (EditRequest) isGenerationRequest() {}

// EncodedImage は送信用に base64 化された画像と、その MIME タイプです。
type EncodedImage struct {
	Base64   string
	MIMEType string
}

// ImageResponse は ImageService が返す生成画像のバイナリです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}

// GenerationResult は表示可能な data URI として保持される生成結果です。
// 生成後は変更されません。
type GenerationResult struct {
	ID        string    `json:"id"`
	DataURI   string    `json:"data_uri"`
	MimeType  string    `json:"mime_type"`
	Mode      Mode      `json:"mode"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}
