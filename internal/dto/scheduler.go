package dto

// GenerateScheduleRequest carries the generation options for a scheduling period.
type GenerateScheduleRequest struct {
	SessionsPerWeek          int  `json:"sessionsPerWeek" validate:"required,min=1,max=40"`
	PreferMorning            bool `json:"preferMorning"`
	AvoidConsecutiveSessions bool `json:"avoidConsecutiveSessions"`
	MaxDailySessions         int  `json:"maxDailySessions" validate:"required,min=1,max=24"`
	MinClassroomCapacity     int  `json:"minClassroomCapacity" validate:"omitempty,min=0"`
	// EnforceDailyCap also applies MaxDailySessions per weekday while placing sessions.
	EnforceDailyCap bool `json:"enforceDailyCap"`
}

// CourseFulfillment reports how many sessions a course received against its request.
type CourseFulfillment struct {
	CourseID  string `json:"courseId"`
	Requested int    `json:"requested"`
	Placed    int    `json:"placed"`
	Shortfall int    `json:"shortfall"`
}

// GenerateScheduleResponse summarises a generation run.
type GenerateScheduleResponse struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message"`
	SessionsCount int                 `json:"sessionsCount"`
	TotalWeeks    int                 `json:"totalWeeks,omitempty"`
	Fulfillment   []CourseFulfillment `json:"fulfillment,omitempty"`
}

// GenerationJobStatus is the lifecycle of an asynchronous generation job.
type GenerationJobStatus string

const (
	GenerationJobPending   GenerationJobStatus = "pending"
	GenerationJobRunning   GenerationJobStatus = "running"
	GenerationJobSucceeded GenerationJobStatus = "succeeded"
	GenerationJobFailed    GenerationJobStatus = "failed"
)

// GenerationJob describes an asynchronous generation request and its outcome.
type GenerationJob struct {
	ID                 string                    `json:"id"`
	SchedulingPeriodID string                    `json:"schedulingPeriodId"`
	Status             GenerationJobStatus       `json:"status"`
	Request            GenerateScheduleRequest   `json:"request"`
	Result             *GenerateScheduleResponse `json:"result,omitempty"`
	Error              string                    `json:"error,omitempty"`
	EnqueuedAt         string                    `json:"enqueuedAt"`
	FinishedAt         string                    `json:"finishedAt,omitempty"`
}
