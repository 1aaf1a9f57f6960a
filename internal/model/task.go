package model

import "time"

type Task struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"-"`
	Content   string    `json:"content"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TaskPatch is the body accepted by create and update. Nil fields were not
// supplied (or were null) and leave the stored value untouched. Invalid
// lists fields whose JSON value had the wrong type.
type TaskPatch struct {
	Content *string  `json:"content"`
	Done    *bool    `json:"done"`
	Invalid []string `json:"-"`
}
