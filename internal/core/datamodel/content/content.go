package content

import "time"

type Event struct {
	ID          int64     `gorm:"primaryKey"`
	PublicID    string    `gorm:"column:public_id;uniqueIndex;not null"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	DateTime    string    `gorm:"column:date_time"`
	Location    string    `gorm:"column:location"`
	Category    string    `gorm:"column:category;default:Gathering"`
	Image       string    `gorm:"column:image"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (Event) TableName() string {
	return "events"
}

type News struct {
	ID          int64     `gorm:"primaryKey"`
	PublicID    string    `gorm:"column:public_id;uniqueIndex;not null"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	DateTime    string    `gorm:"column:date_time"`
	Location    string    `gorm:"column:location"`
	Category    string    `gorm:"column:category"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (News) TableName() string {
	return "news"
}

type Photo struct {
	ID        int64     `gorm:"primaryKey"`
	PublicID  string    `gorm:"column:public_id;uniqueIndex;not null"`
	URL       string    `gorm:"column:url;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Photo) TableName() string {
	return "photos"
}
