package clients

import "time"

// Client is an entry of the client directory.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	TaxID     string    `json:"tax_id"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=500"`
	TaxID   string `json:"tax_id" validate:"max=50"`
	Phone   string `json:"phone" validate:"max=30"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	TaxID   *string `json:"tax_id,omitempty" validate:"omitempty,max=50"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

type ListClientsRequest struct {
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset int    `json:"offset" validate:"gte=0"`
}
