package content

import "time"

// Instructions is the singleton system-prompt record steering the chat
// assistant. Created on first save, updated thereafter, never deleted.
type Instructions struct {
	ID           string    `json:"id"`
	Instructions string    `json:"instructions"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsAvailable bool      `json:"is_available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Proficiency int    `json:"proficiency"`
}

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	URL         string    `json:"url,omitempty"`
	GithubURL   string    `json:"github_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon,omitempty"`
}

type BlogCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type BlogPost struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Content          string    `json:"content"`
	Excerpt          string    `json:"excerpt,omitempty"`
	FeaturedImageURL string    `json:"featured_image_url,omitempty"`
	Published        bool      `json:"published"`
	CategoryID       string    `json:"category_id,omitempty"`
	Views            int       `json:"views"`
	ReadingTime      int       `json:"reading_time,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DayStats is one day's visitor counters, keyed by date (YYYY-MM-DD).
type DayStats struct {
	Date           string `json:"date"`
	PageViews      int    `json:"page_views"`
	UniqueVisitors int    `json:"unique_visitors"`
	BlogViews      int    `json:"blog_views"`
	ChatTurns      int    `json:"chat_turns"`
}
