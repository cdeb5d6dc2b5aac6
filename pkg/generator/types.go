package generator

const (
	DefaultImageModel = "imagen-4.0-generate-001"
	DefaultEditModel  = "gemini-2.5-flash-image"

	// generateOutputMIMEType は Imagen に要求する出力形式です。
	generateOutputMIMEType = "image/png"

	// InlineDataLimit を超える入力画像は File API 経由で渡します。
	InlineDataLimit = 15 << 20
)

// ImageOutput はレスポンス解析の内部結果です。
type ImageOutput struct {
	Data     []byte
	MimeType string
}
