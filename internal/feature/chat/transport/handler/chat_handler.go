// Package handler はchatフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"descripto_backend/internal/api"
	"descripto_backend/internal/feature/chat/domain/entity"
	"descripto_backend/internal/feature/chat/usecase"
	descentity "descripto_backend/internal/feature/description/domain/entity"
	descusecase "descripto_backend/internal/feature/description/usecase"
	jwtmw "descripto_backend/internal/platform/jwt"
)

const (
	kindValidation           = "validation"
	kindInvalidToken         = "invalid_token"
	kindTabNotFound          = "tab_not_found"
	kindGeneratorUnavailable = "generator_unavailable"
	kindGenerationFailed     = "generation_failed"
	kindInternal             = "internal"
)

// ChatUsecase は履歴付き説明文生成のユースケースを定義します。
type ChatUsecase interface {
	Send(ctx context.Context, userID, tabID uint, p descentity.Product) (*usecase.Exchange, error)
	Tabs(ctx context.Context, userID uint, page entity.Page) ([]entity.Tab, error)
	Messages(ctx context.Context, userID, tabID uint, page entity.Page) (*entity.Tab, []entity.Message, error)
}

// ChatHandler はチャット履歴のHTTPリクエストを処理します。
type ChatHandler struct {
	uc ChatUsecase
}

// NewChatHandler はChatHandlerの新しいインスタンスを生成します。
func NewChatHandler(uc ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Send は説明文を生成し、認証済みユーザーのタブに記録します。
// - tab_idを省略すると新しいタブを作成
// - 他のユーザーのタブは404
func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("chat validation failed", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Kind: kindValidation, Error: "'title' and 'features' fields are required."})
		return
	}
	p := descentity.Product{Title: req.Title, Features: req.Features}
	if req.Tone != nil {
		p.Tone = descentity.Tone(*req.Tone)
	}
	var tabID uint
	if req.TabId != nil {
		tabID = uint(*req.TabId)
	}

	ex, err := h.uc.Send(c.Request.Context(), userID, tabID, p)
	if err != nil {
		writeError(c, userID, err)
		return
	}

	ms := math.Round(float64(ex.Descriptions.Elapsed.Microseconds())/10) / 100
	slog.Info("chat message recorded", "user_id", userID, "tab_id", ex.Tab.ID, "count", len(ex.Message.Descriptions))
	c.JSON(http.StatusOK, api.ChatResponse{
		Tab:              toAPITab(*ex.Tab),
		Message:          toAPIMessage(*ex.Message),
		GenerationTimeMs: ms,
	})
}

// Tabs は認証済みユーザーのタブを新しい順に返します。
func (h *ChatHandler) Tabs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var params api.ListChatTabsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Kind: kindValidation, Error: "invalid paging parameters"})
		return
	}
	page := entity.NewPage(deref(params.Page), deref(params.Size))

	tabs, err := h.uc.Tabs(c.Request.Context(), userID, page)
	if err != nil {
		writeError(c, userID, err)
		return
	}
	out := make([]api.ChatTab, len(tabs))
	for i, t := range tabs {
		out[i] = toAPITab(t)
	}
	c.JSON(http.StatusOK, api.ChatTabsResponse{Tabs: out, Page: page.Number, Size: page.Size})
}

// Messages はタブのメッセージを古い順に返します。
func (h *ChatHandler) Messages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tabID, err := strconv.ParseUint(c.Param("tabId"), 10, 64)
	if err != nil || tabID == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Kind: kindValidation, Error: "invalid tab id"})
		return
	}
	var params api.ListChatMessagesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Kind: kindValidation, Error: "invalid paging parameters"})
		return
	}
	page := entity.NewPage(deref(params.Page), deref(params.Size))

	tab, msgs, err := h.uc.Messages(c.Request.Context(), userID, uint(tabID), page)
	if err != nil {
		writeError(c, userID, err)
		return
	}
	out := make([]api.ChatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = toAPIMessage(m)
	}
	c.JSON(http.StatusOK, api.ChatMessagesResponse{Tab: toAPITab(*tab), Messages: out, Page: page.Number, Size: page.Size})
}

func currentUserID(c *gin.Context) (uint, bool) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Kind: kindInvalidToken, Error: "unauthorized"})
		return 0, false
	}
	return user.ID, true
}

func writeError(c *gin.Context, userID uint, err error) {
	var verr *descusecase.ValidationError
	switch {
	case errors.As(err, &verr):
		slog.Warn("chat request rejected", "reason", verr.Message, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Kind: kindValidation, Error: verr.Message})
	case errors.Is(err, usecase.ErrTabNotFound):
		slog.Warn("chat tab not found", "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusNotFound, api.ErrorResponse{Kind: kindTabNotFound, Error: "tab not found"})
	case errors.Is(err, descusecase.ErrGeneratorUnavailable):
		slog.Error("description generator not configured")
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Kind: kindGeneratorUnavailable, Error: "description generation is unavailable"})
	case errors.Is(err, descusecase.ErrGenerationFailed):
		slog.Error("description generation failed", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Kind: kindGenerationFailed, Error: "Failed to generate descriptions. Please try again."})
	default:
		slog.Error("chat request failed", "error", err, "path", c.FullPath(), "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Kind: kindInternal, Error: "internal server error"})
	}
}

func toAPITab(t entity.Tab) api.ChatTab {
	return api.ChatTab{Id: int64(t.ID), Name: t.Name, CreatedAt: t.CreatedAt}
}

func toAPIMessage(m entity.Message) api.ChatMessage {
	items := m.Descriptions
	if items == nil {
		items = []string{}
	}
	return api.ChatMessage{
		Id:           int64(m.ID),
		TabId:        int64(m.TabID),
		Title:        m.Title,
		Features:     m.Features,
		Tone:         string(m.Tone),
		Descriptions: items,
		CreatedAt:    m.CreatedAt,
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
