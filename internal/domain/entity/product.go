package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un lote de producto perecedero del inventario.
// ID lo asigna el store al crear; ExpirationDate es una fecha de calendario (medianoche UTC).
type Product struct {
	ID             int64
	Name           string
	Price          decimal.Decimal
	Stock          int
	ExpirationDate time.Time
	Discounted     bool // solo se activa al aplicar un descuento; nunca vuelve a false
	CategoryID     *int64
	SupplierID     *int64
}

// Clone devuelve una copia profunda (los punteros opcionales no se comparten).
func (p Product) Clone() Product {
	c := p
	c.CategoryID = cloneID(p.CategoryID)
	c.SupplierID = cloneID(p.SupplierID)
	return c
}

// DedupKey es la tupla (nombre, precio, vencimiento) que decide si una entrada se fusiona.
type DedupKey struct {
	Name           string
	Price          decimal.Decimal
	ExpirationDate time.Time
}

// Key devuelve la clave de deduplicación del producto.
func (p Product) Key() DedupKey {
	return DedupKey{Name: p.Name, Price: p.Price, ExpirationDate: p.ExpirationDate}
}

// IsExpired informa si el producto venció antes de today.
func (p Product) IsExpired(today time.Time) bool {
	return DateOf(p.ExpirationDate).Before(DateOf(today))
}

// Ref crea un puntero a id (útil para CategoryID / SupplierID).
func Ref(id int64) *int64 { return &id }

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
