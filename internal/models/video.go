package models

type Video struct {
	BaseModel
	Title          string  `json:"title" gorm:"type:varchar(255);not null"`
	Description    *string `json:"description,omitempty" gorm:"type:text"`
	YoutubeVideoID string  `json:"youtubeVideoId" gorm:"column:youtube_video_id;type:varchar(255);not null;index"`
	Category       string  `json:"category" gorm:"type:varchar(255);not null;index"`
	// Duration is in seconds.
	Duration int  `json:"duration" gorm:"not null;default:0"`
	UserID   uint `json:"userId" gorm:"not null;index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
