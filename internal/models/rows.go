package models

import "time"

// Persisted rows for the reference board store. The store is the authority
// for ids, ranks and the board version counter.

type BoardRow struct {
	ID        string `gorm:"primaryKey"`
	AccountID string `gorm:"index"`
	Name      string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ColumnRow struct {
	ID      string `gorm:"primaryKey"`
	BoardID string `gorm:"index"`
	Title   string
	Ord     int
}

type CardRow struct {
	ID          string `gorm:"primaryKey"`
	BoardID     string `gorm:"index"`
	ColumnID    string `gorm:"index"`
	Rank        float64
	Title       string
	Description string
	Points      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
