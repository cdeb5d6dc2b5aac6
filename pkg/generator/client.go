package generator

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// Client は genai SDK を包み、gemini.GenerativeModel と ImagenModel の両方を提供します。
// GenerateWithParts は画像モダリティでの応答を要求します。
type Client struct {
	client *genai.Client
}

// NewClient は Gemini API バックエンドのクライアントを作成します。
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai クライアントの作成に失敗しました: %w", err)
	}
	return &Client{client: c}, nil
}

// GenerateContent はテキストのみのプロンプトを送信します。
func (c *Client) GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return nil, err
	}
	return &gemini.Response{RawResponse: resp}, nil
}

// GenerateWithParts はパーツ群を 1 つのユーザーコンテンツとして送信し、画像での応答を要求します。
func (c *Client) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage)},
	}
	if opts.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, err
	}
	return &gemini.Response{RawResponse: resp}, nil
}

// GenerateImages は Imagen で画像を生成します。
func (c *Client) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	return c.client.Models.GenerateImages(ctx, model, prompt, config)
}

// UploadFile は File API にアップロードし、参照用 URI と削除用の名前を返します。
func (c *Client) UploadFile(ctx context.Context, data []byte, mimeType, displayName string) (string, string, error) {
	file, err := c.client.Files.Upload(ctx, bytes.NewReader(data), &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: displayName,
	})
	if err != nil {
		return "", "", err
	}
	return file.URI, file.Name, nil
}

// DeleteFile は File API 上のファイルを名前 (files/xxxx) で削除します。
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	_, err := c.client.Files.Delete(ctx, name, nil)
	return err
}

func (c *Client) GetFile(ctx context.Context, name string) (*genai.File, error) {
	return c.client.Files.Get(ctx, name, nil)
}

var (
	_ gemini.GenerativeModel = (*Client)(nil)
	_ ImagenModel            = (*Client)(nil)
)
