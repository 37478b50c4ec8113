package models

import "time"

type EntityImageType string

const (
	EntityImageAvatar     EntityImageType = "avatar"
	EntityImageBackground EntityImageType = "background"
	EntityImageBanner     EntityImageType = "banner"
)

// EntityImage is a reusable uploaded asset (avatars, banners) referenced
// by URL into object storage.
type EntityImage struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Image     string          `json:"image"`
	Type      EntityImageType `gorm:"type:varchar(20);not null" json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ValidEntityImageType reports whether t is an enumerated image type.
func ValidEntityImageType(t EntityImageType) bool {
	switch t {
	case EntityImageAvatar, EntityImageBackground, EntityImageBanner:
		return true
	}
	return false
}
