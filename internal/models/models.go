package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	UID          uuid.UUID `gorm:"type:uuid;primaryKey"              json:"uid"`
	Username     string    `gorm:"not null"                          json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"              json:"email"`
	FirstName    string    `gorm:"column:first_name"                 json:"first_name"`
	LastName     string    `gorm:"column:last_name"                  json:"last_name"`
	Role         string    `gorm:"not null;default:user"             json:"role"`
	IsVerified   bool      `gorm:"not null;default:false"            json:"is_verified"`
	PasswordHash string    `gorm:"not null"                          json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Books        []Book    `gorm:"foreignKey:UserUID;references:UID" json:"books,omitempty"`
	Reviews      []Review  `gorm:"foreignKey:UserUID;references:UID" json:"reviews,omitempty"`
}

type Book struct {
	UID           uuid.UUID  `gorm:"type:uuid;primaryKey"              json:"uid"`
	Title         string     `gorm:"not null"                          json:"title"`
	Author        string     `gorm:"not null"                          json:"author"`
	Publisher     string     `gorm:"not null"                          json:"publisher"`
	PublishedDate *time.Time `gorm:"type:date"                         json:"published_date"`
	PageCount     int        `gorm:"not null"                          json:"page_count"`
	Language      string     `gorm:"not null"                          json:"language"`
	UserUID       *uuid.UUID `gorm:"type:uuid;index"                   json:"user_uid"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Reviews       []Review   `gorm:"foreignKey:BookUID;references:UID" json:"reviews,omitempty"`
	Tags          []Tag      `gorm:"many2many:book_tags"               json:"tags"`
}

type Review struct {
	UID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"uid"`
	Rating     int        `gorm:"not null"             json:"rating"`
	ReviewText string     `gorm:"not null"             json:"review_text"`
	UserUID    *uuid.UUID `gorm:"type:uuid;index"      json:"user_uid"`
	BookUID    *uuid.UUID `gorm:"type:uuid;index"      json:"book_uid"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Tag struct {
	UID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"uid"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UID == uuid.Nil {
		u.UID = uuid.New()
	}
	return nil
}

func (b *Book) BeforeCreate(*gorm.DB) error {
	if b.UID == uuid.Nil {
		b.UID = uuid.New()
	}
	return nil
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.UID == uuid.Nil {
		r.UID = uuid.New()
	}
	return nil
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.UID == uuid.Nil {
		t.UID = uuid.New()
	}
	return nil
}

// All lists every table in migration order.
func All() []any {
	return []any{&User{}, &Book{}, &Review{}, &Tag{}}
}
