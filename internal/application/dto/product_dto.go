package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest entrada para recibir o actualizar un producto.
// ExpirationDate en formato YYYY-MM-DD.
type ProductRequest struct {
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	ExpirationDate string          `json:"expirationDate"`
	Discounted     bool            `json:"discounted"` // solo se respeta en la carga masiva
	CategoryID     *int64          `json:"categoryId,omitempty"`
	SupplierID     *int64          `json:"supplierId,omitempty"`
}

// ProductResponse salida de un producto. Price con dos decimales.
type ProductResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	Stock           int    `json:"stock"`
	ExpirationDate  string `json:"expirationDate"`
	Discounted      bool   `json:"discounted"`
	CategoryID      *int64 `json:"categoryId,omitempty"`
	SupplierID      *int64 `json:"supplierId,omitempty"`
	DaysUntilExpiry int    `json:"daysUntilExpiry"`
}

// AddProductResponse resultado de AddProduct: Created=false si se acumuló stock en un producto existente.
type AddProductResponse struct {
	ProductResponse
	Created bool `json:"created"`
}

// ManualDiscountRequest descuento manual: kind "flat" (monto) o "percentage".
type ManualDiscountRequest struct {
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// DiscountRunResponse resultado de una pasada de descuentos dinámicos.
type DiscountRunResponse struct {
	Applied int `json:"applied"`
}

// ClearExpiredResponse productos vencidos cuyo stock se dejó en cero.
type ClearExpiredResponse struct {
	Cleared  int               `json:"cleared"`
	Products []ProductResponse `json:"products"`
}

// HistoryResponse entrada de auditoría.
type HistoryResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Action    string    `json:"action"`
	OldValue  *string   `json:"oldValue"`
	NewValue  *string   `json:"newValue"`
	Timestamp time.Time `json:"timestamp"`
}

// ImportResult resumen de una carga masiva.
type ImportResult struct {
	Created int           `json:"created"`
	Merged  int           `json:"merged"`
	Skipped int           `json:"skipped"`
	Failed  []ImportError `json:"failed,omitempty"`
}

// ImportError fila rechazada en una carga masiva (Row empieza en 1).
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
