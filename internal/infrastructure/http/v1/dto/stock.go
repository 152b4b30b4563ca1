package dto

// ReservationRequest reserves or releases stock for a (product, warehouse) pair.
type ReservationRequest struct {
	ProductID   string  `json:"productId" binding:"required"`
	WarehouseID string  `json:"warehouseId" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
}
