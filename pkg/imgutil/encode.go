package imgutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/shouni/gemini-image-studio/pkg/domain"
)

// ErrRead はアップロードファイルの読み込み失敗を表します。
// サービス側の失敗とは区別して扱います。
var ErrRead = errors.New("failed to read uploaded file")

// ReadError はどのファイルの読み込みに失敗したかを保持します。
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRead.Error(), e.Name, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is により errors.Is(err, ErrRead) が成立します。
func (e *ReadError) Is(target error) bool { return target == ErrRead }

// Encode はファイルを最後まで読み込み、base64 ペイロードと MIME タイプを返します。
// MIME タイプはファイルが申告したものをそのまま引き継ぎます。
func Encode(f domain.File) (domain.EncodedImage, error) {
	data, err := readAll(f)
	if err != nil {
		return domain.EncodedImage{}, err
	}
	return domain.EncodedImage{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MIMEType: f.MIMEType(),
	}, nil
}

func readAll(f domain.File) ([]byte, error) {
	if f == nil {
		return nil, &ReadError{Name: "<nil>", Err: errors.New("no file")}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &ReadError{Name: f.Name(), Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &ReadError{Name: f.Name(), Err: err}
	}
	return data, nil
}
