package generator

import (
	"errors"
	"fmt"
)

var (
	ErrGeneration = errors.New("Failed to generate image from text.")
	ErrEdit       = errors.New("Failed to edit image.")
)

// ServiceError はリモート呼び出しの失敗です。
// Error() は利用者向けの汎用メッセージのみを返し、原因は Unwrap で取り出せます。
type ServiceError struct {
	Kind error
	Err  error
}

func (e *ServiceError) Error() string { return e.Kind.Error() }

func (e *ServiceError) Unwrap() error { return e.Err }

func (e *ServiceError) Is(target error) bool { return target == e.Kind }

// BlockedError は安全フィルター等で画像が返されなかったことを表します。
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("画像生成がブロックされました (reason: %s)", e.Reason)
}
