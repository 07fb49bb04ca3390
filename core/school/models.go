package school

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shuletech/shule/core"
)

// Profile is the public school profile shown on the micro-site.
type Profile struct {
	Name      string    `json:"name" db:"name"`
	Motto     string    `json:"motto" db:"motto"`
	About     string    `json:"about" db:"about"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// UpdateProfile defines what may be modified on the Profile.
type UpdateProfile struct {
	Name    string `json:"name" validate:"required"`
	Motto   string `json:"motto"`
	About   string `json:"about"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (up *UpdateProfile) Validate() error {
	up.Name = core.CleanString(up.Name)
	up.Motto = core.CleanString(up.Motto)
	up.Email = core.CleanString(up.Email, true /* lower */)
	return core.Validate.Struct(up)
}

// Section is one ordered content block of the micro-site.
type Section struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Position  int       `json:"position" db:"position"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewSection contains information needed to create or replace a Section.
type NewSection struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Position int    `json:"position" validate:"min=0"`
}

func (ns *NewSection) Validate() error {
	ns.Title = core.CleanString(ns.Title)
	return core.Validate.Struct(ns)
}

// Announcement is a dated public notice.
type Announcement struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	PublishedAt time.Time `json:"published_at" db:"published_at"` // UTC
}

// NewAnnouncement contains information needed to publish an Announcement.
type NewAnnouncement struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

func (na *NewAnnouncement) Validate() error {
	na.Title = core.CleanString(na.Title)
	return core.Validate.Struct(na)
}

// Site is the public read model: profile, ordered sections, latest notices.
type Site struct {
	Profile       Profile        `json:"profile"`
	Sections      []Section      `json:"sections"`
	Announcements []Announcement `json:"announcements"`
}

// Stats are derived figures for the admin dashboard. They are recomputed
// from the source records on every read; nothing here is cached on other
// documents.
type Stats struct {
	ActiveStudents int             `json:"active_students"`
	StaffMembers   int             `json:"staff_members"`
	FeesCollected  decimal.Decimal `json:"fees_collected"`
	GeneratedAt    time.Time       `json:"generated_at"` // UTC
}
