package models

import "time"

// Vector is one generated test record. Records of a single generate call
// share a BatchID.
type Vector struct {
	ID         string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BatchID    string    `gorm:"type:uuid;index;not null" json:"batch_id"`
	UserID     string    `gorm:"type:uuid;index;not null" json:"user_id"`
	Algorithm  string    `gorm:"not null" json:"algorithm"`
	Mode       string    `gorm:"not null" json:"mode"`
	TestMode   string    `gorm:"not null" json:"test_mode"`
	KatVariant string    `json:"kat_variant,omitempty"`
	KeyBits    int       `gorm:"not null" json:"key_bits"`
	Direction  string    `gorm:"not null" json:"direction"` // ENCRYPT or DECRYPT
	Count      int       `gorm:"not null" json:"count"`
	KeyHex     string    `gorm:"not null" json:"key_hex"`
	IVHex      string    `json:"iv_hex,omitempty"`
	InputHex   string    `gorm:"not null" json:"input_hex"`
	OutputHex  string    `gorm:"not null" json:"output_hex"`
	Iterations int       `json:"iterations,omitempty"`
	Status     string    `gorm:"not null;default:ready" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Vector) TableName() string { return "vectors" }
