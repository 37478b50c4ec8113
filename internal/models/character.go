package models

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type CharacterTag string

const (
	TagFantasy    CharacterTag = "fantasy"
	TagRomance    CharacterTag = "romance"
	TagSciFi      CharacterTag = "sci-fi"
	TagHistory    CharacterTag = "history"
	TagAssistant  CharacterTag = "assistant"
	TagAnime      CharacterTag = "anime"
	TagGame       CharacterTag = "game"
	TagCompanion  CharacterTag = "companion"
	TagEducation  CharacterTag = "education"
	TagRoleplay   CharacterTag = "roleplay"
)

// DefaultGreeting is applied when a character is created without one.
const DefaultGreeting = "Hi, I'm your new companion!"

type Character struct {
	BaseModel
	Name        string         `gorm:"size:96" json:"characterName"`
	Avatar      string         `gorm:"not null" json:"avatar"`
	Tagline     string         `gorm:"size:1000;not null" json:"tagline"`
	Description string         `gorm:"size:500;not null" json:"description"`
	Greeting    string         `gorm:"size:200" json:"greeting"`
	Tags        []CharacterTag `gorm:"serializer:json" json:"tags"`
	Visibility  Visibility     `gorm:"type:varchar(10);default:'public'" json:"visibility"`

	CreatorID uint  `gorm:"index;not null" json:"creatorId"`
	Creator   *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	LikedByUsers []User `gorm:"many2many:user_liked_characters" json:"-"`
	Chats        []Chat `gorm:"foreignKey:CharacterID" json:"-"`
}

// Likes is the denormalized like count surfaced in API responses.
func (c *Character) Likes() int {
	return len(c.LikedByUsers)
}

// VisibleTo reports whether viewerID may see the character. Public
// characters are visible to anyone, including unauthenticated viewers
// (viewerID 0); private ones only to their creator.
func (c *Character) VisibleTo(viewerID uint) bool {
	if c.Visibility == VisibilityPublic {
		return true
	}
	return viewerID != 0 && c.CreatorID == viewerID
}

// ValidTag reports whether tag is one of the enumerated character tags.
func ValidTag(tag CharacterTag) bool {
	switch tag {
	case TagFantasy, TagRomance, TagSciFi, TagHistory, TagAssistant,
		TagAnime, TagGame, TagCompanion, TagEducation, TagRoleplay:
		return true
	}
	return false
}
