package models

// Contract is a contract document issued to a lead by an operator.
type Contract struct {
	BaseModel

	LeadID     string `gorm:"type:uuid;not null;index" json:"lead_id"`
	FilePath   string `gorm:"not null" json:"file_path"`
	FileName   string `json:"file_name"`
	UploadedBy string `gorm:"default:'admin'" json:"uploaded_by"`
}

// Signed document review states.
const (
	DocumentStatusUnderReview = "under_review"
	DocumentStatusAccepted    = "accepted"
	DocumentStatusRejected    = "rejected"
)

// SignedDocument records a file the lead submitted back, such as a signed contract.
type SignedDocument struct {
	BaseModel

	LeadID   string `gorm:"type:uuid;not null;index" json:"lead_id"`
	FileName string `gorm:"not null" json:"file_name"`
	FileSize int64  `json:"file_size"`
	FileURL  string `json:"file_url"`
	Status   string `gorm:"type:varchar(32);default:'under_review'" json:"status"`
}
