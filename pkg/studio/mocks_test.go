package studio

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/shouni/gemini-image-studio/pkg/domain"
)

// generateCall / editCall はサービス呼び出しの引数を記録するのだ。
type generateCall struct {
	Prompt      string
	AspectRatio domain.AspectRatio
}

type editCall struct {
	Prompt      string
	ImageBase64 string
	MimeType    string
}

type mockService struct {
	mu            sync.Mutex
	generateCalls []generateCall
	editCalls     []editCall

	generateFunc func(ctx context.Context, prompt string, ratio domain.AspectRatio) (*domain.ImageResponse, error)
	editFunc     func(ctx context.Context, prompt, b64, mimeType string) (*domain.ImageResponse, error)
}

func (m *mockService) GenerateFromText(ctx context.Context, prompt string, ratio domain.AspectRatio) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.generateCalls = append(m.generateCalls, generateCall{prompt, ratio})
	fn := m.generateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, prompt, ratio)
	}
	return &domain.ImageResponse{Data: []byte("generated"), MimeType: "image/png"}, nil
}

func (m *mockService) EditFromImage(ctx context.Context, prompt, b64, mimeType string) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.editCalls = append(m.editCalls, editCall{prompt, b64, mimeType})
	fn := m.editFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, prompt, b64, mimeType)
	}
	return &domain.ImageResponse{Data: []byte("edited"), MimeType: "image/png"}, nil
}

func (m *mockService) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.generateCalls) + len(m.editCalls)
}

// stubFile はテスト用のアップロードファイルなのだ。
type stubFile struct {
	name     string
	mimeType string
	content  string
	openErr  error
}

func (f *stubFile) Name() string     { return f.name }
func (f *stubFile) MIMEType() string { return f.mimeType }
func (f *stubFile) Open() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}
