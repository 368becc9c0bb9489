package models

import (
	"time"

	"yamdb/proj/internal/domain/fields"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

var Roles = []string{RoleUser, RoleModerator, RoleAdmin}

type User struct {
	ID          int64     `json:"-"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Bio         string    `json:"bio"`
	Role        string    `json:"role"`
	IsSuperuser bool      `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// AnonymousUser is attached to every unauthenticated request.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Title struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Year        int32         `json:"year"`
	Description string        `json:"description"`
	Category    *Category     `json:"category"`
	Genres      []Genre       `json:"genre"`
	Rating      fields.Rating `json:"rating"` // derived, never stored
}

type Review struct {
	ID        int64     `json:"id"`
	TitleID   int64     `json:"-"`
	AuthorID  int64     `json:"-"`
	Author    string    `json:"author"` // username, resolved on read
	Text      string    `json:"text"`
	Score     int32     `json:"score"`
	CreatedAt time.Time `json:"pub_date"`
}

type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"-"`
	AuthorID  int64     `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"pub_date"`
}
