package models

import "time"

// Exchange is one rated question/answer round between the tutor and a
// student, persisted after the explanation pass completes.
type Exchange struct {
	ID            int       `json:"id" db:"id"`
	StudentName   string    `json:"student_name" db:"student_name"`
	LessonSubject string    `json:"lesson_subject" db:"lesson_subject"`
	Question      string    `json:"question" db:"question"`
	Answer        string    `json:"answer" db:"answer"`
	Rating        int       `json:"rating" db:"rating"`
	TutorReply    string    `json:"tutor_reply" db:"tutor_reply"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
