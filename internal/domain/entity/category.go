package entity

// Category categoría de productos (nombre único). Se crea una vez; no se edita ni elimina.
type Category struct {
	ID   int64
	Name string
}
