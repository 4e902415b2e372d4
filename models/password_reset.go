package models

import (
	"time"

	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/utils"

	"gorm.io/gorm/clause"
)

// PasswordResetTimeout is how long an emailed reset link stays valid.
const PasswordResetTimeout = 3 * 24 * time.Hour

type PasswordReset struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UserID    uint64 `gorm:"not null;index"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Token     string `gorm:"type:varchar(100);index:uniq_reset_token,unique"`
}

func PasswordResetCreate(userID uint64) (r PasswordReset, err error) {
	r.UserID = userID
	r.Token = utils.Rand16BytesToBase62() + utils.Rand16BytesToBase62()
	err = db.Instance.Omit(clause.Associations).Create(&r).Error
	return
}

// PasswordResetFind returns the reset record only if it has not expired.
func PasswordResetFind(userID uint64, token string) (r PasswordReset, err error) {
	notBefore := time.Now().Add(-PasswordResetTimeout).Unix()
	err = db.Instance.Preload("User").
		Where("user_id = ? AND token = ? AND created_at >= ?", userID, token, notBefore).
		First(&r).Error
	return
}
