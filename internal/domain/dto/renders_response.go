package dto

import "github.com/guttosm/stockplot/internal/domain/models"

// RendersResponse is returned by GET /api/v1/renders.
type RendersResponse struct {
	Symbol  string                `json:"symbol,omitempty" example:"AAPL"`
	Count   int                   `json:"count" example:"1"`
	Renders []models.RenderRecord `json:"renders"`
}
