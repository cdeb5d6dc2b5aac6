package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/imgutil"
	"github.com/shouni/gemini-image-studio/pkg/studio"
)

// uploadField はアップロードのフォームフィールド名です。
const uploadField = "file"

type sessionHandler func(w http.ResponseWriter, r *http.Request, id string, ctrl *studio.Controller)

// withSession は URL の {id} からセッションを解決します。存在しなければ 404 を返します。
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ctrl, ok := s.manager.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h(w, r, id, ctrl)
	}
}

type aspectRatioView struct {
	Value   domain.AspectRatio `json:"value"`
	Label   string             `json:"label"`
	Default bool               `json:"default,omitempty"`
}

// sessionView はセッション状態の JSON 表現です。
type sessionView struct {
	ID          string                    `json:"id"`
	Mode        domain.Mode               `json:"mode"`
	Prompt      string                    `json:"prompt"`
	FileName    string                    `json:"file_name,omitempty"`
	Preview     string                    `json:"preview,omitempty"`
	AspectRatio domain.AspectRatio        `json:"aspect_ratio"`
	Result      *domain.GenerationResult  `json:"result"`
	Error       string                    `json:"error,omitempty"`
	Notice      string                    `json:"notice,omitempty"`
	Loading     bool                      `json:"loading"`
	History     []domain.GenerationResult `json:"history"`
	Outcome     string                    `json:"outcome,omitempty"`
}

func newSessionView(id string, st studio.State) sessionView {
	v := sessionView{
		ID:          id,
		Mode:        st.Mode,
		Prompt:      st.Prompt,
		Preview:     st.Preview,
		AspectRatio: st.AspectRatio,
		Result:      st.Result,
		Error:       st.Error,
		Notice:      st.Notice,
		Loading:     st.Loading,
		History:     st.History,
	}
	if st.File != nil {
		v.FileName = st.File.Name()
	}
	if v.History == nil {
		v.History = []domain.GenerationResult{}
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAspectRatios(w http.ResponseWriter, _ *http.Request) {
	ratios := domain.AspectRatios()
	out := make([]aspectRatioView, 0, len(ratios))
	for _, r := range ratios {
		out = append(out, aspectRatioView{Value: r, Label: r.Label(), Default: r == domain.DefaultAspectRatio})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, ctrl, err := s.manager.Create()
	if err != nil {
		slog.ErrorContext(r.Context(), "セッションの作成に失敗しました", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, newSessionView(id, ctrl.State()))
}

func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request, id string, ctrl *studio.Controller) {
	writeJSON(w, http.StatusOK, newSessionView(id, ctrl.State()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.manager.Get(id); !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	s.manager.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request, id string, ctrl *studio.Controller) {
	var body struct {
		Mode string `json:"mode"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	m, err := domain.ParseMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctrl.SetMode(m)
	writeJSON(w, http.StatusOK, newSessionView(id, ctrl.State()))
}

func (s *Server) handleSetPrompt(w http.ResponseWriter, r *http.Request, id string, ctrl *studio.Controller) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	ctrl.SetPrompt(body.Prompt)
	writeJSON(w, http.StatusOK, newSessionView(id, ctrl.State()))
}

func (s *Server) handleSetAspectRatio(w http.ResponseWriter, r *http.Request, id string, ctrl *studio.Controller) {
	var body struct {
		AspectRatio string `json:"aspect_ratio"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	ratio, err := domain.ParseAspectRatio(body.AspectRatio)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctrl.SetAspectRatio(ratio)
	writeJSON(w, http.StatusOK, newSessionView(id, ctrl.State()))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, id string, ctrl *studio.Controller) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.observeUpload("too_large")
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.metrics.observeUpload("invalid")
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.metrics.observeUpload("invalid")
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "application/octet-stream" {
		mimeType = ""
	}
	f := imgutil.NewMemoryFile(header.Filename, mimeType, data)
	if !imgutil.IsAcceptedImageType(f.MIMEType()) {
		s.metrics.observeUpload("unsupported")
		writeError(w, http.StatusUnsupportedMediaType, "only image/png and image/jpeg are accepted")
		return
	}

	ctrl.SetUploadedFile(f)
	s.metrics.observeUpload("accepted")
	slog.InfoContext(r.Context(), "画像を受け付けました", "session_id", id, "name", f.Name(), "mime", f.MIMEType(), "size", f.Size())
	writeJSON(w, http.StatusOK, newSessionView(id, ctrl.State()))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, id string, ctrl *studio.Controller) {
	start := time.Now()
	// クライアントが切断しても生成結果は履歴に残す
	outcome, mode := ctrl.SubmitWithMode(context.WithoutCancel(r.Context()))
	s.metrics.observeSubmit(mode, outcome, time.Since(start).Seconds())

	v := newSessionView(id, ctrl.State())
	v.Outcome = outcome.String()
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSelectHistory(w http.ResponseWriter, r *http.Request, id string, ctrl *studio.Controller) {
	if !ctrl.SelectHistoryID(chi.URLParam(r, "entryID")) {
		writeError(w, http.StatusNotFound, "history entry not found")
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(id, ctrl.State()))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("レスポンスの書き込みに失敗しました", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
