package imgutil

import (
	"encoding/base64"
	"errors"
	"strings"
)

const defaultMIMEType = "image/png"

var ErrInvalidDataURI = errors.New("invalid data URI")

// DataURI はバイナリを data:<mime>;base64,... 形式に変換します。
func DataURI(mimeType string, data []byte) string {
	return DataURIFromBase64(mimeType, base64.StdEncoding.EncodeToString(data))
}

// DataURIFromBase64 は base64 済みのペイロードから data URI を組み立てます。
// MIME タイプが空の場合は image/png として扱います。
func DataURIFromBase64(mimeType, b64 string) string {
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	return "data:" + mimeType + ";base64," + b64
}

// ParseDataURI は DataURI の逆変換です。
func ParseDataURI(uri string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mimeType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrInvalidDataURI, err)
	}
	return mimeType, data, nil
}
