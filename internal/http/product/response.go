package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/product"
)

type productResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	SalePrice     int64             `json:"sale_price"`
	PurchasePrice int64             `json:"purchase_price"`
	Brand         string            `json:"brand,omitempty"`
	Category      string            `json:"category,omitempty"`
	Stock         int64             `json:"stock"`
	StockMin      int64             `json:"stock_min"`
	Barcode       string            `json:"barcode,omitempty"`
	ImageURL      string            `json:"image_url,omitempty"`
	LowStock      bool              `json:"low_stock"`
	AutoPart      *autoPartResponse `json:"auto_part,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
}

type autoPartResponse struct {
	VehicleModel string `json:"vehicle_model"`
	VehicleYear  int    `json:"vehicle_year,omitempty"`
}

func toResponse(p *product.Product) productResponse {
	resp := productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SalePrice:     p.SalePrice,
		PurchasePrice: p.PurchasePrice,
		Brand:         p.Brand,
		Category:      p.Category,
		Stock:         p.Stock,
		StockMin:      p.StockMin,
		Barcode:       p.Barcode,
		ImageURL:      p.ImageURL,
		LowStock:      p.LowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if p.AutoPart != nil {
		resp.AutoPart = &autoPartResponse{
			VehicleModel: p.AutoPart.VehicleModel,
			VehicleYear:  p.AutoPart.VehicleYear,
		}
	}

	return resp
}

func toResponseList(products []*product.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	return resp
}
