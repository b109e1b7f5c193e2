package testutil

import (
	"fmt"

	"coursework/pkg/model"
)

type LessonBuilder struct {
	lesson model.Lesson
}

func NewLessonBuilder() *LessonBuilder {
	return &LessonBuilder{
		lesson: model.Lesson{
			Subject:  "Mathematics",
			Location: "Hendon",
			Price:    100,
			Spaces:   5,
			Image:    "maths.png",
			Icon:     "fa-calculator",
		},
	}
}

func (b *LessonBuilder) WithSubject(subject string) *LessonBuilder {
	b.lesson.Subject = subject
	return b
}

func (b *LessonBuilder) WithLocation(location string) *LessonBuilder {
	b.lesson.Location = location
	return b
}

func (b *LessonBuilder) WithPrice(price float64) *LessonBuilder {
	b.lesson.Price = price
	return b
}

func (b *LessonBuilder) WithSpaces(spaces int) *LessonBuilder {
	b.lesson.Spaces = spaces
	return b
}

func (b *LessonBuilder) Build() model.Lesson {
	return b.lesson
}

// OrderBody builds a POST /orders payload. Each index gets its own phone so
// that the per-phone rate limit does not interfere.
func OrderBody(index int, numSpaces int, lessonIDs ...string) map[string]any {
	return map[string]any{
		"name":      fmt.Sprintf("Student %d", index),
		"phone":     fmt.Sprintf("+4477009%05d", index),
		"lessonIDs": lessonIDs,
		"numSpaces": numSpaces,
	}
}
