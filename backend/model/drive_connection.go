package model

import (
	"time"

	"gorm.io/gorm/clause"
)

// DriveConnection holds one caller's link to Google Drive: the OAuth token
// pair plus its expiry. At most one row exists per user; a new authorization
// overwrites the previous one.
type DriveConnection struct {
	Id           int       `json:"id" gorm:"primaryKey"`
	UserId       string    `json:"user_id" gorm:"uniqueIndex;size:64;not null"`
	AccessToken  string    `json:"-" gorm:"type:text"`
	RefreshToken string    `json:"-" gorm:"type:text"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DriveConnection) TableName() string {
	return "drive_connections"
}

// UpsertDriveConnection stores freshly exchanged tokens for a user,
// replacing any prior connection.
func UpsertDriveConnection(userId, accessToken, refreshToken string, expiresAt time.Time) error {
	conn := DriveConnection{
		UserId:       userId,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "updated_at"}),
	}).Create(&conn).Error
}

func GetDriveConnection(userId string) (*DriveConnection, error) {
	var conn DriveConnection
	if err := DB.Where("user_id = ?", userId).First(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// UpdateDriveTokens overwrites the access token and expiry after a refresh.
// The refresh token is written as-is: callers keep the old one when the
// provider omits it from the refresh response.
func UpdateDriveTokens(userId, accessToken, refreshToken string, expiresAt time.Time) error {
	return DB.Model(&DriveConnection{}).Where("user_id = ?", userId).Updates(map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_at":    expiresAt,
	}).Error
}
