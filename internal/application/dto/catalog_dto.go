package dto

// CategoryRequest entrada para crear una categoría.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SupplierRequest entrada para crear un proveedor.
type SupplierRequest struct {
	Name        string  `json:"name"`
	ContactInfo *string `json:"contactInfo,omitempty"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ContactInfo *string `json:"contactInfo,omitempty"`
}
