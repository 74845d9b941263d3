package handler

import (
	"context"
	"log/slog"
	"net/http"

	"stock_dashboard/internal/feature/catalog/domain/entity"
	"stock_dashboard/internal/feature/catalog/transport/http/dto"

	"github.com/gin-gonic/gin"
)

// CompanyLister は選択可能な会社一覧を返すユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CompanyLister interface {
	ListCompanies(ctx context.Context) ([]entity.Company, error)
}

// CompanyHandler は会社一覧に関するHTTPリクエストを処理します。
type CompanyHandler struct {
	uc CompanyLister
}

// NewCompanyHandler は新しい CompanyHandler を作成します。
func NewCompanyHandler(uc CompanyLister) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// List はカタログ順の会社一覧をJSONで返します。
// Usecaseでエラーが発生した場合は500 Internal Server Errorを返します。
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.uc.ListCompanies(c.Request.Context())
	if err != nil {
		slog.Error("failed to list companies", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list companies"})
		return
	}
	out := make([]dto.CompanyItem, 0, len(companies))
	for _, co := range companies {
		out = append(out, dto.CompanyItem{Name: co.Name, Ticker: co.Ticker})
	}
	c.JSON(http.StatusOK, out)
}
