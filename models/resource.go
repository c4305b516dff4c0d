package models

import "time"

// ResourceFile locates the deliverable behind a resource. PublicID is set for
// files kept in Cloudinary; URL is used as-is otherwise.
type ResourceFile struct {
	URL          string `bson:"url" json:"url"`
	PublicID     string `bson:"publicId,omitempty" json:"publicId,omitempty"`
	ResourceType string `bson:"resourceType,omitempty" json:"resourceType,omitempty"`
	Size         int64  `bson:"size,omitempty" json:"size,omitempty"`
	Format       string `bson:"format,omitempty" json:"format,omitempty"`
}

// Resource is a purchasable digital download.
type Resource struct {
	ID          string       `bson:"id" json:"id"`
	Title       string       `bson:"title" json:"title"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Type        string       `bson:"type,omitempty" json:"type,omitempty"`
	Price       float64      `bson:"price" json:"price"`
	Currency    string       `bson:"currency" json:"currency"`
	File        ResourceFile `bson:"file" json:"-"`
	Downloads   int          `bson:"downloads" json:"downloads"`
	IsActive    bool         `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// ResourceSummary is returned with gateway orders and purchase listings.
type ResourceSummary struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
	Type     string  `json:"type,omitempty"`
}

func (r *Resource) Summary() *ResourceSummary {
	return &ResourceSummary{ID: r.ID, Title: r.Title, Price: r.Price, Currency: r.Currency, Type: r.Type}
}
