package project

import "time"

// Project is a research project applicants can join or that a proposal
// creates once approved.
type Project struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Published   bool      `gorm:"default:false" json:"published"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the database table name
func (Project) TableName() string {
	return "projects"
}
