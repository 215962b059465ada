package model

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	IsSuperAdmin bool      `gorm:"not null;default:false" json:"-"`
	TokenVersion int       `gorm:"not null;default:0" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"-"`
	UpdatedAt    time.Time `gorm:"not null" json:"-"`
}

// グループ所属（Manager / DeliveryCrew）。1ユーザー1ロール1行。
type UserRole struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	Role      Role      `gorm:"primaryKey;type:varchar(20)"`
	CreatedAt time.Time `gorm:"not null"`
}
