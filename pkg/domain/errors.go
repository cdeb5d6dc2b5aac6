package domain

import "errors"

var (
	ErrEmptyPrompt        = errors.New("prompt is required")
	ErrImageRequired      = errors.New("image required")
	ErrInvalidMode        = errors.New("invalid mode")
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
)
