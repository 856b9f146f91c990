package db

import "github.com/google/uuid"

// Resume holds a user's contact details; one per user.
type Resume struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Phone    string    `json:"phone"`
	Location string    `json:"location"`
	LinkedIn string    `json:"linkedin"`
}

// Education represents an education entry
type Education struct {
	ID           uuid.UUID `json:"id"`
	ResumeID     uuid.UUID `json:"resume_id"`
	SchoolName   string    `json:"school_name"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"field_of_study"`
	Start        *Date     `json:"start"`
	End          *Date     `json:"end"`
	GPA          *float64  `json:"gpa"`
}

// Experience represents a work history entry
type Experience struct {
	ID                 uuid.UUID `json:"id"`
	ResumeID           uuid.UUID `json:"resume_id"`
	JobName            string    `json:"job_name"`
	Company            string    `json:"company"`
	Location           string    `json:"location"`
	Start              *Date     `json:"start"`
	End                *Date     `json:"end"`
	IsWorkingCurrently bool      `json:"is_working_currently"`
	Description        string    `json:"description"`
}

// Skill is a named skill with a free-form proficiency.
type Skill struct {
	ID          uuid.UUID `json:"id"`
	ResumeID    uuid.UUID `json:"resume_id"`
	Name        string    `json:"name"`
	Proficiency string    `json:"proficiency"`
}

// ResumeDetails is a resume with all of its entries.
type ResumeDetails struct {
	Resume
	Educations  []Education  `json:"educations"`
	Experiences []Experience `json:"experiences"`
	Skills      []Skill      `json:"skills"`
}
