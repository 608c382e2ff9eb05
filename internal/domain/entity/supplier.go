package entity

// Supplier proveedor de productos (nombre único).
type Supplier struct {
	ID          int64
	Name        string
	ContactInfo *string
}
