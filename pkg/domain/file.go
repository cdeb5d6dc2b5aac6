package domain

import "io"

// File はローカルで選択されたアップロード画像への参照です。
type File interface {
	Name() string
	MIMEType() string
	Open() (io.ReadCloser, error)
}
