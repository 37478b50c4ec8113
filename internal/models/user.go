package models

import "time"

type UserRole string

const (
	UserRoleStandard UserRole = "user"
	UserRoleCreator  UserRole = "creator"
	UserRoleAdmin    UserRole = "admin"
)

type UserPlan string

const (
	UserPlanFree    UserPlan = "free"
	UserPlanBasic   UserPlan = "basic"
	UserPlanPremium UserPlan = "premium"
)

type User struct {
	BaseModel
	UserName     string `gorm:"size:96;not null" json:"userName"`
	Email        string `gorm:"size:96;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:96" json:"-"`
	ProfileImage string `gorm:"size:1024" json:"profileImage,omitempty"`

	Role   UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`
	Plan   UserPlan `gorm:"type:varchar(20);default:'free'" json:"plan"`
	IsPaid bool     `gorm:"default:false" json:"isPaid"`

	// Daily chat quota state. MessagesSentToday is only trusted when
	// LastMessageSentAt falls on the current UTC day.
	MessagesSentToday int        `gorm:"default:0" json:"messagesSentToday"`
	LastMessageSentAt *time.Time `json:"lastMessageSentAt,omitempty"`

	IsBlocked bool `gorm:"default:false" json:"isBlocked"`

	// Incremented on sign-out so previously issued tokens stop verifying.
	TokenVersion int `gorm:"default:0" json:"-"`

	// Relations
	Blogs           []Blog      `gorm:"foreignKey:CreatorID" json:"-"`
	Characters      []Character `gorm:"foreignKey:CreatorID" json:"-"`
	Chats           []Chat      `gorm:"foreignKey:UserID" json:"-"`
	LikedCharacters []Character `gorm:"many2many:user_liked_characters" json:"-"`
}

// ValidRole reports whether role is one of the enumerated user roles.
func ValidRole(role UserRole) bool {
	switch role {
	case UserRoleStandard, UserRoleCreator, UserRoleAdmin:
		return true
	}
	return false
}

// ValidPlan reports whether plan is one of the enumerated plan tiers.
func ValidPlan(plan UserPlan) bool {
	switch plan {
	case UserPlanFree, UserPlanBasic, UserPlanPremium:
		return true
	}
	return false
}
