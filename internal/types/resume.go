package types

// ResumeRequest updates the contact block of a resume.
type ResumeRequest struct {
	Phone    string `json:"phone" validate:"max=32"`
	Location string `json:"location" validate:"max=200"`
	LinkedIn string `json:"linkedin" validate:"omitempty,url"`
}

// EducationRequest represents an education entry in create/update calls.
type EducationRequest struct {
	SchoolName   string   `json:"school_name" validate:"required,max=200"`
	Degree       string   `json:"degree" validate:"max=200"`
	FieldOfStudy string   `json:"field_of_study" validate:"max=200"`
	Start        string   `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End          string   `json:"end" validate:"omitempty,datetime=2006-01-02"`
	GPA          *float64 `json:"gpa" validate:"omitempty,min=0,max=5"`
}

// ExperienceRequest represents a work history entry in create/update calls.
type ExperienceRequest struct {
	JobName            string `json:"job_name" validate:"required,max=200"`
	Company            string `json:"company" validate:"max=200"`
	Location           string `json:"location" validate:"max=200"`
	Start              string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End                string `json:"end" validate:"omitempty,datetime=2006-01-02"`
	IsWorkingCurrently bool   `json:"is_working_currently"`
	Description        string `json:"description"`
}

// SkillRequest represents a skill in create/update calls.
type SkillRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Proficiency string `json:"proficiency" validate:"max=50"`
}
