package domain

import "time"

// Category is a node in the product category tree.
// ProductCount carries the number of ACTIVE products in the category when the
// category was loaded through the listing path; it is not a stored column.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description,omitempty"`
	Image        *string   `json:"image,omitempty"`
	IsActive     bool      `json:"isActive"`
	ParentID     *string   `json:"parentId,omitempty"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
