package entity

import "time"

const (
	// UserRolePending can authenticate but not publish. Every
	// self-provisioned account starts here.
	UserRolePending = "pending"
	// UserRoleAuthor can create, edit, publish, and delete articles.
	UserRoleAuthor = "author"
	// UserRoleAdmin additionally manages the user roster.
	UserRoleAdmin = "admin"
)

// DbUser represents a persisted user account. Accounts are provisioned
// lazily on first verified login; the external_id unique index is what
// keeps concurrent first logins from creating duplicates.
type DbUser struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ExternalID  string    `gorm:"column:external_id;type:varchar(255);uniqueIndex;not null" json:"external_id"`
	Email       string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName string    `gorm:"column:display_name;type:varchar(255)" json:"display_name"`
	Role        string    `gorm:"column:role;type:varchar(50);index;not null" json:"role"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID          uint      `json:"id"`
	ExternalID  string    `json:"external_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionRequest carries the external identity assertion to exchange for
// a session cookie. The assertion may arrive in the body or as a bearer
// header; the body form exists for clients that cannot set headers.
type SessionRequest struct {
	Assertion string `json:"assertion"`
}

// SessionResponse is returned after a successful exchange. The credential
// itself travels in the session cookie, not in the body.
type SessionResponse struct {
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
}
