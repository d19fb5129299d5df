package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type UserModel struct {
	ID             string         `gorm:"type:uuid;primary_key"`
	Email          string         `gorm:"uniqueIndex;not null"`
	Username       string         `gorm:"uniqueIndex;not null"`
	Password       string         `gorm:"not null"`
	FirstName      string
	LastName       string
	Nickname       string
	PhoneNumber    string
	Occupation     string
	Location       string
	Bio            string
	AvatarURL      string
	FavoriteGenres pq.StringArray `gorm:"type:text[]"`
	RefreshToken   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
