package models

type Blog struct {
	BaseModel
	Title   string `gorm:"size:100;not null" json:"title"`
	Media   string `gorm:"not null" json:"media"`
	Excerpt string `gorm:"size:1000;not null" json:"excerpt"`

	CreatorID uint  `gorm:"index;not null" json:"creatorId"`
	Creator   *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}
