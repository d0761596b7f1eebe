package model

import "time"

type User struct {
	UserID          string    `bson:"user_id" json:"user_id"`
	Username        string    `bson:"username" json:"username"`
	Password        string    `bson:"password" json:"-"` // argon2 salt$hash
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	LastLoginAt     time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	LastLoginDevice string    `bson:"last_login_device,omitempty" json:"last_login_device,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Password string `json:"password" binding:"required,password"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
