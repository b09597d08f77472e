package user

import "time"

// Profile mirrors the identity resolved by the auth middleware. It is
// upserted on every authenticated request so member listings can show
// names and emails without another auth round-trip.
type Profile struct {
	UserID      string    `gorm:"type:uuid;primaryKey"`
	Email       *string   `gorm:"type:text"`
	DisplayName *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
