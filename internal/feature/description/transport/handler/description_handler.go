// Package handler はdescriptionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"descripto_backend/internal/api"
	"descripto_backend/internal/feature/description/domain/entity"
	"descripto_backend/internal/feature/description/usecase"
)

// 応答のエラー種別
const (
	kindValidation           = "validation"
	kindGeneratorUnavailable = "generator_unavailable"
	kindGenerationFailed     = "generation_failed"
)

// DescriptionUsecase は商品説明文生成のユースケースを定義します。
type DescriptionUsecase interface {
	Generate(ctx context.Context, p entity.Product) (*entity.Descriptions, error)
}

// DescriptionHandler は説明文生成のHTTPリクエストを処理します。
type DescriptionHandler struct {
	uc DescriptionUsecase
}

// NewDescriptionHandler はDescriptionHandlerの新しいインスタンスを生成します。
func NewDescriptionHandler(uc DescriptionUsecase) *DescriptionHandler {
	return &DescriptionHandler{uc: uc}
}

// Generate は商品説明文生成APIエンドポイントを処理します。
// - 入力不備は400
// - 生成器未設定は503、生成失敗は502
func (h *DescriptionHandler) Generate(c *gin.Context) {
	var req api.GenerateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("generate description validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Kind: kindValidation, Error: "'title' and 'features' fields are required."})
		return
	}
	p := entity.Product{Title: req.Title, Features: req.Features}
	if req.Tone != nil {
		p.Tone = entity.Tone(*req.Tone)
	}

	out, err := h.uc.Generate(c.Request.Context(), p)
	if err != nil {
		var verr *usecase.ValidationError
		switch {
		case errors.As(err, &verr):
			slog.Warn("generate description rejected", "reason", verr.Message, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Kind: kindValidation, Error: verr.Message})
		case errors.Is(err, usecase.ErrGeneratorUnavailable):
			slog.Error("description generator not configured")
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Kind: kindGeneratorUnavailable, Error: "description generation is unavailable"})
		default:
			slog.Error("description generation failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Kind: kindGenerationFailed, Error: "Failed to generate descriptions. Please try again."})
		}
		return
	}

	ms := math.Round(float64(out.Elapsed.Microseconds())/10) / 100
	slog.Info("descriptions generated", "count", len(out.Items), "generation_time_ms", ms)
	c.JSON(http.StatusOK, api.GenerateDescriptionResponse{
		Descriptions:     out.Items,
		GenerationTimeMs: ms,
		Count:            len(out.Items),
	})
}
