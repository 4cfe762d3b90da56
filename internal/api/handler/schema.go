package handler

import "github.com/warbler/warbler/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type signupRequest struct {
	Username string `json:"username"  validate:"required,max=64"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	ImageURL string `json:"image_url" validate:"omitempty,max=2048"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Username       string `json:"username"         validate:"omitempty,max=64"`
	Email          string `json:"email"            validate:"omitempty,email"`
	ImageURL       string `json:"image_url"        validate:"omitempty,max=2048"`
	HeaderImageURL string `json:"header_image_url" validate:"omitempty,max=2048"`
	Bio            string `json:"bio"              validate:"omitempty,max=280"`
	Location       string `json:"location"         validate:"omitempty,max=100"`
	Password       string `json:"password"         validate:"required"`
}

type postMessageRequest struct {
	Text string `json:"text" validate:"required,max=140"`
}

// --- Response types ---

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type profileResponse struct {
	*domain.User
	MessageCount   int               `json:"message_count"`
	FollowingCount int               `json:"following_count"`
	FollowerCount  int               `json:"follower_count"`
	Messages       []*domain.Message `json:"messages"`
}

func toProfileResponse(u *domain.User) profileResponse {
	msgs := u.Messages
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	return profileResponse{
		User:           u,
		MessageCount:   len(u.Messages),
		FollowingCount: len(u.Following),
		FollowerCount:  len(u.Followers),
		Messages:       msgs,
	}
}

// nonNil keeps empty collections rendering as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
