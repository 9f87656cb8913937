package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleViewer Role = "viewer"
)

// User is an operator account. The engine only consults users when fanning
// out notifications; account management lives in the CRUD layer.
type User struct {
	gorm.Model
	Username    string        `gorm:"uniqueIndex;not null" json:"username"`
	Password    string        `gorm:"not null" json:"-"`
	Role        Role          `gorm:"not null;default:viewer" json:"role"`
	Email       string        `gorm:"uniqueIndex" json:"email"`
	FarmID      uint          `gorm:"index" json:"farm_id"`
	IsActive    bool          `gorm:"default:true" json:"is_active"`
	EmailAlerts bool          `gorm:"default:true" json:"email_alerts"`
	MinSeverity AlertSeverity `gorm:"default:LOW" json:"min_severity"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// WantsSeverity reports whether the user opted into alerts at or above
// the given severity.
func (u *User) WantsSeverity(s AlertSeverity) bool {
	return s.Rank() >= u.MinSeverity.Rank()
}
