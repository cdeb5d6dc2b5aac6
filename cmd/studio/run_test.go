package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/imgutil"
	"github.com/shouni/gemini-image-studio/pkg/studio"
)

type stubService struct {
	ratio    domain.AspectRatio
	editMIME string
}

func (s *stubService) GenerateFromText(_ context.Context, _ string, ratio domain.AspectRatio) (*domain.ImageResponse, error) {
	s.ratio = ratio
	return &domain.ImageResponse{Data: []byte("generated"), MimeType: "image/png"}, nil
}

func (s *stubService) EditFromImage(_ context.Context, _, _ string, mimeType string) (*domain.ImageResponse, error) {
	s.editMIME = mimeType
	return &domain.ImageResponse{Data: []byte("edited"), MimeType: "image/png"}, nil
}

func TestApplyRunFlags(t *testing.T) {
	t.Run("generate: アスペクト比を設定", func(t *testing.T) {
		svc := &stubService{}
		ctrl, err := studio.NewController(svc)
		require.NoError(t, err)

		require.NoError(t, applyRunFlags(ctrl, "a red fox in snow", "", "16:9"))
		require.Equal(t, studio.OutcomeSucceeded, ctrl.Submit(context.Background()))
		assert.Equal(t, domain.AspectLandscape, svc.ratio)
	})

	t.Run("edit: ローカルファイルを読み込む", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.jpg")
		require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))

		svc := &stubService{}
		ctrl, err := studio.NewController(svc)
		require.NoError(t, err)

		require.NoError(t, applyRunFlags(ctrl, "make the sky purple", path, ""))
		assert.Equal(t, domain.ModeEdit, ctrl.State().Mode)
		require.Equal(t, studio.OutcomeSucceeded, ctrl.Submit(context.Background()))
		assert.Equal(t, "image/jpeg", svc.editMIME)
	})

	t.Run("不正なアスペクト比", func(t *testing.T) {
		ctrl, err := studio.NewController(&stubService{})
		require.NoError(t, err)
		assert.Error(t, applyRunFlags(ctrl, "x", "", "2:1"))
	})

	t.Run("PNG/JPEG 以外の画像", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
		ctrl, err := studio.NewController(&stubService{})
		require.NoError(t, err)
		assert.Error(t, applyRunFlags(ctrl, "x", path, ""))
	})
}

func TestWriteResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	result := &domain.GenerationResult{DataURI: imgutil.DataURI("image/png", []byte("pixels"))}

	require.NoError(t, writeResult(path, result))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), got)

	assert.Error(t, writeResult(path, nil))
}
