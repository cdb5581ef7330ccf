package models

// SupportQuery is a public support request; not tied to a lead account.
type SupportQuery struct {
	BaseModel

	Name     string `gorm:"not null" json:"name"`
	Phone    string `gorm:"not null" json:"phone"`
	Location string `gorm:"not null" json:"location"`
	Issue    string `gorm:"type:text;not null" json:"issue"`
}
