package entity

import "time"

// Symbol is a row of the optional symbols table that can back the catalog.
// Active symbols ordered by SortKey become the catalog companies.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	Market    string    `gorm:"size:100;not null;default:''"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Company converts the row to a catalog entry.
func (s Symbol) Company() Company {
	return Company{Name: s.Name, Ticker: s.Code}
}
