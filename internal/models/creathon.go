package models

import "time"

// Creathon is a time-boxed hackathon-like event with its own mentor/jury team.
type Creathon struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	RegionID  string    `gorm:"size:64;index" json:"region_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Members []CreathonMember `gorm:"constraint:OnDelete:CASCADE" json:"members"`
}

// CreathonMember is a mentor or jury member attached to a creathon.
type CreathonMember struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CreathonID uint       `gorm:"not null;index" json:"creathon_id"`
	Role       string     `gorm:"size:32;not null;index" json:"role"`
	Name       string     `gorm:"size:255" json:"name"`
	Email      string     `gorm:"size:255;not null" json:"email"`
	Archived   bool       `gorm:"not null;default:false" json:"archived"`
	InvitedAt  *time.Time `json:"invited_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

const (
	// CreathonRoleMentor marks a member coaching creathon teams.
	CreathonRoleMentor = "mentor"
	// CreathonRoleJury marks a member judging creathon deliverables.
	CreathonRoleJury = "jury"
)
