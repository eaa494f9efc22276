package models

type Album struct {
	ID            uint64 `gorm:"primaryKey" json:"id"`
	UserID        uint64 `gorm:"not null;index:user_album_created,priority:1" json:"user_id"`
	User          User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt     int64  `gorm:"autoCreateTime;index:user_album_created,priority:2" json:"created_at"`
	Title         string `gorm:"type:varchar(300);not null" json:"title"`
	Description   string `gorm:"type:varchar(1000)" json:"description"`
	CoverPhotoURL string `gorm:"type:varchar(500)" json:"cover_photo_url"`
}
