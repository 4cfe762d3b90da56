package domain

import "fmt"

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User models an account. Messages, Following and Followers are views that
// are only populated when the user is loaded as a profile.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"-"`
	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`
	Bio            string `json:"bio,omitempty"`
	Location       string `json:"location,omitempty"`

	Messages  []*Message `json:"-"`
	Following []*User    `json:"-"`
	Followers []*User    `json:"-"`
}

// String renders the debug form <User #id: username, email>.
func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

// ApplyDefaults fills the image URLs left empty at construction time.
func (u *User) ApplyDefaults() {
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = DefaultHeaderImageURL
	}
}

// IsFollowing reports whether other is present in the loaded Following view.
func (u *User) IsFollowing(other *User) bool {
	return containsUser(u.Following, other)
}

// IsFollowedBy reports whether other is present in the loaded Followers view.
func (u *User) IsFollowedBy(other *User) bool {
	return containsUser(u.Followers, other)
}

func containsUser(users []*User, target *User) bool {
	if target == nil {
		return false
	}
	for _, u := range users {
		if u != nil && u.ID == target.ID {
			return true
		}
	}
	return false
}
