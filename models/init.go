package models

import (
	"github.com/Shkitskiy94/hw05-final/db"
)

func Init() error {
	return db.Instance.AutoMigrate(
		&User{},
		&Group{},
		&Post{},
		&Comment{},
		&Follow{},
		&PasswordReset{},
	)
}
