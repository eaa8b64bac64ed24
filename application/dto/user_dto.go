package dto

import (
	"github.com/Midnighter/knowledge-chat/domain/core/aggregates"
)

// UserDTO carries user data across the application boundary.
type UserDTO struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Name   string `json:"name" validate:"required,max=256"`
	Email  string `json:"email" validate:"required,email"`
}

// FromUser transforms a user domain model into a DTO
func FromUser(userID string, user *aggregates.User) UserDTO {
	return UserDTO{
		UserID: userID,
		Name:   user.Name(),
		Email:  user.Email(),
	}
}

// Create builds a new user aggregate from the DTO
func (d UserDTO) Create() *aggregates.User {
	return aggregates.NewUser(d.Name, d.Email)
}
