package server

import (
	"context"
	"sync"

	"github.com/shouni/gemini-image-studio/pkg/domain"
)

type editCall struct {
	Prompt   string
	MimeType string
}

// mockService は ImageService のテスト用実装です。
type mockService struct {
	mu            sync.Mutex
	generateRatio []domain.AspectRatio
	edits         []editCall
	err           error
}

func (m *mockService) GenerateFromText(_ context.Context, _ string, ratio domain.AspectRatio) (*domain.ImageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateRatio = append(m.generateRatio, ratio)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ImageResponse{Data: []byte("generated"), MimeType: "image/png"}, nil
}

func (m *mockService) EditFromImage(_ context.Context, prompt, _ string, mimeType string) (*domain.ImageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, editCall{prompt, mimeType})
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ImageResponse{Data: []byte("edited"), MimeType: "image/png"}, nil
}
