package model

import "time"

type OrderRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=100"`
	Phone     string   `json:"phone" validate:"required,min=1,max=32"`
	LessonIDs []string `json:"lessonIDs" validate:"required,min=1,max=50,dive,required,mongodb"`
	NumSpaces int      `json:"numSpaces" validate:"required,min=1,max=100"`
}

type Order struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone" bson:"phone"`
	LessonIDs []string  `json:"lessonIDs" bson:"lessonIDs"`
	NumSpaces int       `json:"numSpaces" bson:"numSpaces"`
	CreatedAt time.Time `json:"createdAt" bson:"timestamp"`
}

// Reservation is the amount of capacity one order takes from one lesson.
type Reservation struct {
	LessonID string
	Amount   int
}

// Reservations folds repeated lesson ids into one reservation per lesson,
// in first-occurrence order. Each occurrence reserves numSpaces.
func Reservations(lessonIDs []string, numSpaces int) []Reservation {
	index := make(map[string]int, len(lessonIDs))
	out := make([]Reservation, 0, len(lessonIDs))
	for _, id := range lessonIDs {
		if i, ok := index[id]; ok {
			out[i].Amount += numSpaces
			continue
		}
		index[id] = len(out)
		out = append(out, Reservation{LessonID: id, Amount: numSpaces})
	}
	return out
}
