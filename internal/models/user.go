package models

// User mirrors the identity provider's directory entry. Authentication is
// handled upstream; this table only serves display lookups for check-ins.
type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Email     string `gorm:"not null" json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
