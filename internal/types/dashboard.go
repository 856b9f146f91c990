package types

// DashboardEditRequest is a direct edit of the cached dashboard state.
// Omitted fields keep their persisted value.
type DashboardEditRequest struct {
	TotalXP *int `json:"total_xp" validate:"omitempty,min=0,max=2147483647"`
	Level   *int `json:"level" validate:"omitempty,min=1"`
}

// AchievementRequest awards an achievement. TaskXP defaults to 50 when omitted.
type AchievementRequest struct {
	Title  string `json:"title" validate:"required,max=200"`
	TaskXP *int   `json:"task_xp" validate:"omitempty,min=0,max=2147483647"`
}

// FinanceGoalRequest creates or replaces a savings goal. Amounts are in cents.
type FinanceGoalRequest struct {
	Title              string `json:"title" validate:"required,max=200"`
	CurrentAmountCents int64  `json:"current_amount_cents" validate:"min=0"`
	GoalAmountCents    int64  `json:"goal_amount_cents" validate:"required,gt=0"`
	DueDate            string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// AppliedJobRequest creates or replaces a self-tracked application.
type AppliedJobRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Company   string `json:"company" validate:"required,max=200"`
	Location  string `json:"location" validate:"max=200"`
	Status    string `json:"status" validate:"omitempty,oneof=applied interview offer rejected"`
	AppliedOn string `json:"applied_on" validate:"omitempty,datetime=2006-01-02"`
}
