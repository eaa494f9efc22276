package models

import (
	"gorm.io/gorm"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"created_at"`
	Email     string `gorm:"type:varchar(255);index:uniq_email,unique;not null" json:"email"`
	Password  string `gorm:"type:varchar(128);not null" json:"-"`
}

// UserCreate registers a new user with a bcrypt-hashed password.
func UserCreate(db *gorm.DB, email, plainTextPassword string) (u User, err error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.Email = email
	u.Password = string(hash)
	return u, db.Create(&u).Error
}

// UserLogin verifies the credentials. It does not reveal whether the email or
// the password was the wrong one.
func UserLogin(db *gorm.DB, email, plainTextPassword string) (u User, success bool) {
	if db.First(&u, "email = ?", email).Error != nil {
		return User{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) != nil {
		return User{}, false
	}
	return u, true
}
