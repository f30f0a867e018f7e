package dto

// Pagination is a generic pagination envelope for list results
// T is the element type of the Data slice
// Total represents the total number of items matching the filter (without pagination)
// Page is 1-based; PageSize is the applied page size
type Pagination[T any] struct {
	Data     []T   `json:"data"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// PaginationItemDTO is a concrete swagger-friendly type for the paginated feed response
// swagger:model PaginationItemDTO
type PaginationItemDTO struct {
	Data     []ItemDTO `json:"data"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Total    int64     `json:"total"`
}
