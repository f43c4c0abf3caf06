package domain

import "time"

// Article is a blog post owned by the user who created it.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Date      string    `json:"date"`
	ReadTime  string    `json:"readTime"`
	Image     string    `json:"image,omitempty"`
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
