package entity

import "time"

const (
	CategoryBreaking    = "breaking"
	CategoryTech        = "tech"
	CategoryHealth      = "health"
	CategorySports      = "sports"
	CategoryBusiness    = "business"
	CategoryEnvironment = "environment"
)

// ArticleCategories is the closed set of accepted categories.
var ArticleCategories = []string{
	CategoryBreaking,
	CategoryTech,
	CategoryHealth,
	CategorySports,
	CategoryBusiness,
	CategoryEnvironment,
}

// IsValidCategory reports whether value belongs to the closed category set.
func IsValidCategory(value string) bool {
	for _, category := range ArticleCategories {
		if category == value {
			return true
		}
	}
	return false
}

// DbArticle represents a persisted article. The slug is derived from the
// title once at creation and never regenerated, so title edits do not move
// the public URL.
type DbArticle struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `gorm:"column:title;type:varchar(512);not null" json:"title"`
	Slug      string    `gorm:"column:slug;type:varchar(512);uniqueIndex;not null" json:"slug"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	Excerpt   string    `gorm:"column:excerpt;type:text" json:"excerpt"`
	ImageURL  string    `gorm:"column:image_url;type:varchar(1024)" json:"image_url"`
	Author    string    `gorm:"column:author;type:varchar(255)" json:"author"`
	Category  string    `gorm:"column:category;type:varchar(50);index" json:"category"`
	Published bool      `gorm:"column:published;index;not null;default:false" json:"published"`
}

// TableName overrides default pluralised name.
func (DbArticle) TableName() string {
	return "articles"
}

// ArticleCreateRequest is the admin creation payload. Published is required
// so the caller states the initial state explicitly.
type ArticleCreateRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	ImageURL  string `json:"image_url"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	Published bool   `json:"published"`
}

// ArticleUpdateRequest carries a partial update; nil fields are untouched.
// The slug is deliberately absent.
type ArticleUpdateRequest struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Excerpt   *string `json:"excerpt,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
	Author    *string `json:"author,omitempty"`
	Category  *string `json:"category,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// ArticleUpdates maps an ArticleUpdateRequest onto GORM column updates.
type ArticleUpdates struct {
	Title     *string
	Content   *string
	Excerpt   *string
	ImageURL  *string
	Author    *string
	Category  *string
	Published *bool
}

// ToMap converts set fields into a GORM updates map.
func (u ArticleUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.Excerpt != nil {
		updates["excerpt"] = *u.Excerpt
	}
	if u.ImageURL != nil {
		updates["image_url"] = *u.ImageURL
	}
	if u.Author != nil {
		updates["author"] = *u.Author
	}
	if u.Category != nil {
		updates["category"] = *u.Category
	}
	if u.Published != nil {
		updates["published"] = *u.Published
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u ArticleUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

type ArticleListResponse struct {
	Articles []DbArticle `json:"articles"`
}
