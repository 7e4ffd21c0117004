package domain

import "time"

type Product struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Description  string    `json:"description" bson:"description"`
	Price        float64   `json:"price" bson:"price"`
	RegularPrice float64   `json:"regularPrice,omitempty" bson:"regularPrice,omitempty"`
	Categories   []string  `json:"categories" bson:"categories"`
	Keywords     []string  `json:"keywords,omitempty" bson:"keywords,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	ImageURLs    []string  `json:"imageUrls,omitempty" bson:"imageUrls,omitempty"`
	Colors       []string  `json:"colors,omitempty" bson:"colors,omitempty"`
	Sizes        []string  `json:"sizes,omitempty" bson:"sizes,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// FirstImage is the URL used for cart thumbnails, empty when the product has
// no images at all.
func (p Product) FirstImage() string {
	if p.ThumbnailURL != "" {
		return p.ThumbnailURL
	}
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs[0]
	}
	return ""
}

type Category struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	ImageURL  string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
