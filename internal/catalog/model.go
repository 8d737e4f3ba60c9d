package catalog

import "time"

// Product is an entry of the product catalog.
type Product struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Code      string  `json:"code" validate:"required,max=50"`
	Name      string  `json:"name" validate:"required,max=200"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Code      *string  `json:"code,omitempty" validate:"omitempty,max=50"`
	Name      *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	UnitPrice *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

type ListProductsRequest struct {
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset int    `json:"offset" validate:"gte=0"`
}
