package models

import "time"

// Experience levels a developer can register with
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceProfessional = "professional"
)

// User represents a developer profile
type User struct {
	ID                string    `json:"id" db:"id"`
	Username          string    `json:"username" db:"username"`
	Email             string    `json:"email" db:"email"`
	Password          string    `json:"-" db:"password_hash"` // Never expose in JSON
	FirstName         string    `json:"firstName" db:"first_name"`
	LastName          string    `json:"lastName" db:"last_name"`
	Title             string    `json:"title" db:"title"`
	Bio               *string   `json:"bio,omitempty" db:"bio"`
	ExperienceLevel   string    `json:"experienceLevel" db:"experience_level"` // 'beginner', 'intermediate', 'professional'
	Skills            []string  `json:"skills" db:"skills"`
	ProfileImage      *string   `json:"profileImage,omitempty" db:"profile_image"`
	IsOnline          bool      `json:"isOnline" db:"is_online"`
	OpenToCollaborate bool      `json:"openToCollaborate" db:"open_to_collaborate"`
	LastSeen          time.Time `json:"lastSeen" db:"last_seen"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// UserResponse is what we send to clients (without sensitive data)
type UserResponse struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Title             string    `json:"title"`
	Bio               *string   `json:"bio,omitempty"`
	ExperienceLevel   string    `json:"experienceLevel"`
	Skills            []string  `json:"skills"`
	ProfileImage      *string   `json:"profileImage,omitempty"`
	IsOnline          bool      `json:"isOnline"`
	OpenToCollaborate bool      `json:"openToCollaborate"`
	LastSeen          time.Time `json:"lastSeen"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Title:             u.Title,
		Bio:               u.Bio,
		ExperienceLevel:   u.ExperienceLevel,
		Skills:            u.Skills,
		ProfileImage:      u.ProfileImage,
		IsOnline:          u.IsOnline,
		OpenToCollaborate: u.OpenToCollaborate,
		LastSeen:          u.LastSeen,
		CreatedAt:         u.CreatedAt,
	}
}

// ValidExperienceLevel reports whether level is one of the known values
func ValidExperienceLevel(level string) bool {
	switch level {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceProfessional:
		return true
	}
	return false
}
