// Package studio はユーザー操作と ImageService、履歴の間を仲介するセッション単位のコントローラーです。
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/generator"
	"github.com/shouni/gemini-image-studio/pkg/history"
	"github.com/shouni/gemini-image-studio/pkg/imgutil"
)

const (
	MsgImageRequired = "Please upload an image to edit."
	MsgNoImage       = "No image was produced."
	errorPrefix      = "An error occurred: "
)

// State はある時点の SessionState のスナップショットです。
type State struct {
	Mode        domain.Mode
	Prompt      string
	File        domain.File
	Preview     string
	AspectRatio domain.AspectRatio
	Result      *domain.GenerationResult
	Error       string
	Notice      string
	Loading     bool
	History     []domain.GenerationResult
}

// Controller は 1 セッション分の状態を所有し、リクエストのライフサイクルを管理します。
//
// 状態は mu で保護されますが、ファイルの読み込みとサービス呼び出しの間はロックを解放します。
// 処理中 (loading) の Submit は待たずに無視されるため、同時に飛ぶリクエストは最大 1 件です。
type Controller struct {
	svc     generator.ImageService
	encode  func(domain.File) (domain.EncodedImage, error)
	preview func(domain.File) (string, error)
	now     func() time.Time
	newID   func() string

	mu          sync.Mutex
	mode        domain.Mode
	prompt      string
	file        domain.File
	previewURI  string
	aspectRatio domain.AspectRatio
	result      *domain.GenerationResult
	errMsg      string
	notice      string
	loading     bool
	history     *history.Store

	// epoch はモード変更とアップロードで進み、古い応答の破棄に使う。
	epoch uint64
}

// Option は Controller の依存を差し替えます。
type Option func(*Controller)

// WithEncoder はアップロードのエンコード処理を差し替えます。
func WithEncoder(fn func(domain.File) (domain.EncodedImage, error)) Option {
	return func(c *Controller) { c.encode = fn }
}

// WithPreviewer はプレビュー作成処理を差し替えます。
func WithPreviewer(fn func(domain.File) (string, error)) Option {
	return func(c *Controller) { c.preview = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(c *Controller) { c.now = fn }
}

func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// NewController は ImageService を注入して既定状態のコントローラーを作成します。
func NewController(svc generator.ImageService, opts ...Option) (*Controller, error) {
	if svc == nil {
		return nil, fmt.Errorf("svc (generator.ImageService) is required")
	}
	c := &Controller{
		svc:         svc,
		encode:      imgutil.Encode,
		preview:     imgutil.Preview,
		now:         time.Now,
		newID:       uuid.NewString,
		mode:        domain.ModeGenerate,
		aspectRatio: domain.DefaultAspectRatio,
		history:     history.NewStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State は現在の状態のコピーを返します。
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result *domain.GenerationResult
	if c.result != nil {
		r := *c.result
		result = &r
	}
	return State{
		Mode:        c.mode,
		Prompt:      c.prompt,
		File:        c.file,
		Preview:     c.previewURI,
		AspectRatio: c.aspectRatio,
		Result:      result,
		Error:       c.errMsg,
		Notice:      c.notice,
		Loading:     c.loading,
		History:     c.history.Entries(),
	}
}

// SetMode はモードを切り替え、入力と出力をすべて初期化します。履歴は残ります。
func (c *Controller) SetMode(m domain.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode = m
	c.prompt = ""
	c.file = nil
	c.previewURI = ""
	c.result = nil
	c.errMsg = ""
	c.notice = ""
	c.epoch++
}

// SetUploadedFile はファイルを保持してプレビューを作成します。既存の結果とエラーは消えます。
// プレビュー作成中に別のアップロードやモード変更があった場合、そのプレビューは捨てられます。
func (c *Controller) SetUploadedFile(f domain.File) {
	if f == nil {
		return
	}

	c.mu.Lock()
	c.file = f
	c.previewURI = ""
	c.result = nil
	c.errMsg = ""
	c.notice = ""
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()

	uri, err := c.preview(f)
	if err != nil {
		slog.Warn("プレビューの作成に失敗しました", "name", f.Name(), "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch == epoch {
		c.previewURI = uri
	}
}

func (c *Controller) SetPrompt(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompt = text
}

// SetAspectRatio は generate モードでのみ使われるアスペクト比を設定します。
func (c *Controller) SetAspectRatio(r domain.AspectRatio) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspectRatio = r
}

// SelectHistoryEntry は履歴の 1 件を現在の結果として表示します。
func (c *Controller) SelectHistoryEntry(e domain.GenerationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	selected := c.history.Select(e)
	c.result = &selected
	c.notice = ""
}

// SelectHistoryID は ID で履歴を探して表示します。見つからなければ false です。
func (c *Controller) SelectHistoryID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.history.Find(id)
	if !ok {
		return false
	}
	c.result = &e
	c.notice = ""
	return true
}

// Submit は現在の入力で ImageService を 1 回だけ呼び出し、結果を状態に反映します。
// どの経路で終了しても loading は false に戻ります。
func (c *Controller) Submit(ctx context.Context) Outcome {
	outcome, _ := c.SubmitWithMode(ctx)
	return outcome
}

// SubmitWithMode は Submit と同じ処理を行い、実際に使ったモードも返します。
func (c *Controller) SubmitWithMode(ctx context.Context) (Outcome, domain.Mode) {
	c.mu.Lock()
	mode := c.mode
	if c.prompt == "" || c.loading {
		c.mu.Unlock()
		return OutcomeSkipped, mode
	}
	if mode == domain.ModeEdit && c.file == nil {
		c.errMsg = MsgImageRequired
		c.mu.Unlock()
		return OutcomeInvalid, mode
	}

	c.loading = true
	c.errMsg = ""
	c.notice = ""
	c.result = nil
	epoch := c.epoch
	prompt, ratio, file := c.prompt, c.aspectRatio, c.file
	c.mu.Unlock()

	// loading の解除は finish か、finish に到達しなかった場合のこの defer のどちらか一方だけ
	released := false
	defer func() {
		if released {
			return
		}
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	req, err := c.buildRequest(mode, prompt, ratio, file)
	if err == nil {
		slog.InfoContext(ctx, "画像生成をリクエストします", "mode", mode, "prompt_len", len(prompt))
		var resp *domain.ImageResponse
		resp, err = c.call(ctx, req)
		outcome := c.finish(ctx, epoch, req, resp, err)
		released = true
		return outcome, mode
	}
	outcome := c.finish(ctx, epoch, nil, nil, err)
	released = true
	return outcome, mode
}

func (c *Controller) buildRequest(mode domain.Mode, prompt string, ratio domain.AspectRatio, file domain.File) (domain.GenerationRequest, error) {
	var req domain.GenerationRequest
	switch mode {
	case domain.ModeEdit:
		img, err := c.encode(file)
		if err != nil {
			return nil, err
		}
		req = domain.EditRequest{Prompt: prompt, Image: img}
	default:
		req = domain.GenerateRequest{Prompt: prompt, AspectRatio: ratio}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func (c *Controller) call(ctx context.Context, req domain.GenerationRequest) (*domain.ImageResponse, error) {
	switch r := req.(type) {
	case domain.GenerateRequest:
		return c.svc.GenerateFromText(ctx, r.Prompt, r.AspectRatio)
	case domain.EditRequest:
		return c.svc.EditFromImage(ctx, r.Prompt, r.Image.Base64, r.Image.MIMEType)
	default:
		return nil, fmt.Errorf("unsupported request type %T", req)
	}
}

// finish は応答を状態に反映します。req が nil の場合はリクエスト構築前の失敗です。
func (c *Controller) finish(ctx context.Context, epoch uint64, req domain.GenerationRequest, resp *domain.ImageResponse, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if c.epoch != epoch {
		slog.InfoContext(ctx, "状態が変わったため応答を破棄しました")
		return OutcomeDiscarded
	}

	if err != nil {
		c.errMsg = errorPrefix + err.Error()
		if errors.Is(err, imgutil.ErrRead) {
			slog.WarnContext(ctx, "アップロードの読み込みに失敗しました", "error", err)
			return OutcomeReadFailed
		}
		slog.WarnContext(ctx, "画像生成に失敗しました", "error", err)
		return OutcomeFailed
	}

	if resp == nil || len(resp.Data) == 0 {
		c.notice = MsgNoImage
		return OutcomeEmpty
	}

	mimeType := resp.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	result := domain.GenerationResult{
		ID:        c.newID(),
		DataURI:   imgutil.DataURI(mimeType, resp.Data),
		MimeType:  mimeType,
		Mode:      req.Mode(),
		Prompt:    promptOf(req),
		CreatedAt: c.now(),
	}
	c.result = &result
	c.history.Prepend(result)
	slog.InfoContext(ctx, "画像を生成しました", "id", result.ID, "mode", result.Mode, "history", c.history.Len())
	return OutcomeSucceeded
}

func promptOf(req domain.GenerationRequest) string {
	switch r := req.(type) {
	case domain.GenerateRequest:
		return r.Prompt
	case domain.EditRequest:
		return r.Prompt
	default:
		return ""
	}
}
