package imgutil

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/gemini-image-studio/pkg/domain"
)

// LocalFile はディスク上の画像ファイルです。
type LocalFile struct {
	path     string
	mimeType string
}

// NewLocalFile は拡張子から MIME タイプを決定します。
// 拡張子から判定できない場合はファイル先頭のバイト列から推定します。
func NewLocalFile(path string) (*LocalFile, error) {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		head, err := sniff(path)
		if err != nil {
			return nil, &ReadError{Name: filepath.Base(path), Err: err}
		}
		mimeType = http.DetectContentType(head)
	}
	return &LocalFile{path: path, mimeType: mimeType}, nil
}

func sniff(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func (f *LocalFile) Name() string     { return filepath.Base(f.path) }
func (f *LocalFile) MIMEType() string { return f.mimeType }

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// MemoryFile はマルチパートで受け取ったアップロードをメモリ上に保持します。
type MemoryFile struct {
	name     string
	mimeType string
	data     []byte
}

// NewMemoryFile は MIME タイプが空の場合のみ内容から推定します。
func NewMemoryFile(name, mimeType string, data []byte) *MemoryFile {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return &MemoryFile{name: name, mimeType: mimeType, data: data}
}

func (f *MemoryFile) Name() string     { return f.name }
func (f *MemoryFile) MIMEType() string { return f.mimeType }
func (f *MemoryFile) Size() int        { return len(f.data) }

func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// IsAcceptedImageType はファイルピッカーが受け付ける PNG / JPEG かを返します。
func IsAcceptedImageType(mimeType string) bool {
	switch strings.ToLower(mimeType) {
	case "image/png", "image/jpeg", "image/jpg":
		return true
	default:
		return false
	}
}

var (
	_ domain.File = (*LocalFile)(nil)
	_ domain.File = (*MemoryFile)(nil)
)
