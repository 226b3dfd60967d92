package models

import (
	"time"
)

// Account is a registered shopper. The account directory owns every Account;
// a session only points at one.
type Account struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	JoinedAt time.Time `json:"joinDate"`
}

// for registration
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,basic_email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

// for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,basic_email"`
	Password string `json:"password" validate:"required"`
}

type ProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,basic_email"`
}

// Profile is the read model behind the profile page.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	MemberSince time.Time `json:"member_since"`
	OrderCount  int       `json:"order_count"`
	TotalSpent  float64   `json:"total_spent"`
}
