package entity

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// UpdateCategoryRequest carries partial-update semantics: a nil Name
// leaves the stored name unchanged.
type UpdateCategoryRequest struct {
	Name *string `json:"name"`
}

type CreateItemRequest struct {
	Name       string  `json:"name"`
	CategoryID int64   `json:"category_id" validate:"required"`
	Flavor     string  `json:"flavor"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image_url"`
	Stock      int     `json:"stock"`
}

// UpdateItemRequest distinguishes "field absent" (nil pointer, keep the
// stored value) from "field explicitly set to empty/zero" (overwrite).
type UpdateItemRequest struct {
	Name       *string  `json:"name"`
	CategoryID *int64   `json:"category_id"`
	Flavor     *string  `json:"flavor"`
	Price      *float64 `json:"price"`
	ImageURL   *string  `json:"image_url"`
	Stock      *int     `json:"stock"`
}

// OrderListEntryRequest mirrors one client-local order-list entry posted
// to the summary endpoint for copy/print rendering.
type OrderListEntryRequest struct {
	ItemID       int64   `json:"item_id" validate:"required"`
	Name         string  `json:"name"`
	CategoryName string  `json:"category_name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
}

type OrderSummaryRequest struct {
	Entries []OrderListEntryRequest `json:"entries" validate:"dive"`
}

type OrderSummaryResponse struct {
	Summary string `json:"summary"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
