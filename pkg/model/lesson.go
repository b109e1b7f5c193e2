package model

import "time"

type Lesson struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Subject   string     `json:"subject" bson:"subject"`
	Location  string     `json:"location" bson:"location"`
	Price     float64    `json:"price" bson:"price"`
	Spaces    int        `json:"spaces" bson:"spaces"`
	Image     string     `json:"image,omitempty" bson:"image,omitempty"`
	Icon      string     `json:"icon,omitempty" bson:"icon,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// LessonUpdate is the allow-list of fields a client may change on a lesson.
// Nil pointers are left untouched.
type LessonUpdate struct {
	Subject  *string  `json:"subject,omitempty" validate:"omitempty,min=1,max=200"`
	Location *string  `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Spaces   *int     `json:"spaces,omitempty" validate:"omitempty,gte=0"`
	Image    *string  `json:"image,omitempty" validate:"omitempty,max=500"`
	Icon     *string  `json:"icon,omitempty" validate:"omitempty,max=200"`
}

func (u *LessonUpdate) IsEmpty() bool {
	return u.Subject == nil && u.Location == nil && u.Price == nil &&
		u.Spaces == nil && u.Image == nil && u.Icon == nil
}

// Fields returns the bson field set for a $set update.
func (u *LessonUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Subject != nil {
		fields["subject"] = *u.Subject
	}
	if u.Location != nil {
		fields["location"] = *u.Location
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	if u.Spaces != nil {
		fields["spaces"] = *u.Spaces
	}
	if u.Image != nil {
		fields["image"] = *u.Image
	}
	if u.Icon != nil {
		fields["icon"] = *u.Icon
	}
	return fields
}
