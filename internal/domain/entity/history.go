package entity

import "time"

// HistoryAction tipo de mutación registrada en la auditoría.
type HistoryAction string

// Acciones de auditoría.
const (
	ActionAdd         HistoryAction = "ADD"
	ActionUpdate      HistoryAction = "UPDATE"
	ActionDelete      HistoryAction = "DELETE"
	ActionStockAdjust HistoryAction = "STOCK_ADJUST"
)

// Valid informa si la acción pertenece al conjunto conocido.
func (a HistoryAction) Valid() bool {
	switch a {
	case ActionAdd, ActionUpdate, ActionDelete, ActionStockAdjust:
		return true
	}
	return false
}

// HistoryRecord es una entrada inmutable de la auditoría de un producto.
// OldValue / NewValue son descripciones libres; nil para DELETE.
type HistoryRecord struct {
	ID        int64
	ProductID int64
	Action    HistoryAction
	OldValue  *string
	NewValue  *string
	Timestamp time.Time
}
