package models

import (
	"errors"
	"strings"

	"github.com/Shkitskiy94/hw05-final/db"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64  // date joined
	UpdatedAt int64
	Username  string `gorm:"type:varchar(150);index:uniq_username,unique;not null"`
	Email     string `gorm:"type:varchar(254);index"`
	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`
	Password  string `gorm:"type:varchar(128)"` // bcrypt hash, never rendered
	IsStaff   bool   `gorm:"not null;default:false"`
}

// PasswordCost is lowered by tests, bcrypt at the default cost is slow.
var PasswordCost = bcrypt.DefaultCost

var ErrUsernameTaken = errors.New("a user with that username already exists")

func UserCreate(username, email, plainTextPassword string) (u User, err error) {
	u.Username = username
	u.Email = email
	err = u.Create(plainTextPassword)
	return
}

// Create inserts u with all its fields in a single write.
func (u *User) Create(plainTextPassword string) error {
	if UsernameTaken(u.Username) {
		return ErrUsernameTaken
	}
	u.Email = strings.TrimSpace(u.Email)
	if err := u.SetPassword(plainTextPassword); err != nil {
		return err
	}
	return db.Instance.Create(u).Error
}

func UsernameTaken(username string) bool {
	var count int64
	db.Instance.Model(&User{}).Where("username = ?", username).Count(&count)
	return count > 0
}

func (u *User) SetPassword(plainTextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) == nil
}

// SavePassword stores a new password and invalidates pending reset links.
func (u *User) SavePassword(plainTextPassword string) error {
	if err := u.SetPassword(plainTextPassword); err != nil {
		return err
	}
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(u).Update("password", u.Password).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", u.ID).Delete(&PasswordReset{}).Error
	})
}

func UserLogin(username, plainTextPassword string) (u User, success bool) {
	if err := db.Instance.First(&u, "username = ?", username).Error; err != nil {
		return User{}, false
	}
	if !u.CheckPassword(plainTextPassword) {
		return User{}, false
	}
	return u, true
}

func UserByUsername(username string) (u User, err error) {
	err = db.Instance.First(&u, "username = ?", username).Error
	return
}

// UsersByEmail matches case-insensitively, same as the reset form.
func UsersByEmail(email string) (users []User, err error) {
	err = db.Instance.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Find(&users).Error
	return
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName is the full name if known and the username otherwise.
func (u User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username
}

func (u User) String() string {
	return u.Username
}

func (u *User) SetStaff(staff bool) error {
	u.IsStaff = staff
	return db.Instance.Model(u).Update("is_staff", staff).Error
}
