package models

import (
	"time"

	"github.com/angelmondragon/coupon-engine/pkg/enums"
)

// Coupon is the persisted coupon row. Details holds the type-specific
// payload as a JSON document.
type Coupon struct {
	ID        uint64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string           `gorm:"column:name;not null"`
	Type      enums.CouponType `gorm:"column:type;not null"`
	Details   string           `gorm:"column:details;type:jsonb;not null"`
	ExpiresAt *time.Time       `gorm:"column:expires_at"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Coupon) TableName() string {
	return "coupons"
}
