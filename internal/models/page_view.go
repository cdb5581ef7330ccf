package models

// PageViewCounter is a single-row table backing the landing-page view count.
type PageViewCounter struct {
	BaseModel

	Views int64 `gorm:"not null;default:0" json:"views"`
}
