package main

import (
	"fmt"
	"os"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/imgutil"
	"github.com/shouni/gemini-image-studio/pkg/studio"
)

// applyRunFlags はコマンドライン引数をコントローラーの操作に変換します。
func applyRunFlags(ctrl *studio.Controller, prompt, imagePath, ratio string) error {
	if imagePath != "" {
		ctrl.SetMode(domain.ModeEdit)
		f, err := imgutil.NewLocalFile(imagePath)
		if err != nil {
			return err
		}
		if !imgutil.IsAcceptedImageType(f.MIMEType()) {
			return fmt.Errorf("unsupported image type %q: only PNG and JPEG are accepted", f.MIMEType())
		}
		ctrl.SetUploadedFile(f)
	} else {
		r, err := domain.ParseAspectRatio(ratio)
		if err != nil {
			return err
		}
		ctrl.SetAspectRatio(r)
	}
	ctrl.SetPrompt(prompt)
	return nil
}

func writeResult(path string, result *domain.GenerationResult) error {
	if result == nil {
		return fmt.Errorf("no result to write")
	}
	_, data, err := imgutil.ParseDataURI(result.DataURI)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
