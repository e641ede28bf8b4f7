package domain

import "time"

type Review struct {
	ID        int64
	ProductID int64
	UserID    int64
	Rating    int // 1-5
	Comment   string
	CreatedAt time.Time
}

func (r Review) ValidRating() bool { return r.Rating >= 1 && r.Rating <= 5 }
