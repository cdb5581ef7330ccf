package models

// AdminAccount holds operator credentials. Passwords are stored as bcrypt hashes.
type AdminAccount struct {
	BaseModel

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}
