package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token            string    `json:"token"`
	TokenType        string    `json:"tokenType"`
	ExpiresAt        time.Time `json:"expiresAt"`
	UserID           string    `json:"userId"`
	Username         string    `json:"username"`
	Role             string    `json:"role"`
	AssignedProjects []string  `json:"assignedProjects"`
}

// --- Users ---

type createUserRequest struct {
	Username        string `json:"username"        validate:"required,min=3,max=50"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type userResponse struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	AssignedProjects []string  `json:"assignedProjects"`
	CreatedAt        time.Time `json:"createdAt"`
}

type userWeeklyStatsResponse struct {
	UserID                string         `json:"userId"`
	Username              string         `json:"username"`
	WeekStartDate         string         `json:"weekStartDate"`
	ProjectHours          map[string]int `json:"projectHours"`
	TotalHours            int            `json:"totalHours"`
	UtilizationPercentage float64        `json:"utilizationPercentage"`
}

// --- Projects ---

type createProjectRequest struct {
	Name             string    `json:"name"             validate:"required,min=3,max=100"`
	Description      string    `json:"description"      validate:"max=500"`
	StartDate        time.Time `json:"startDate"        validate:"required"`
	EndDate          time.Time `json:"endDate"          validate:"required,gtfield=StartDate"`
	TotalBudgetHours int       `json:"totalBudgetHours" validate:"min=0"`
}

type assignUsersRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1,dive,required"`
}

type assignUsersResponse struct {
	ProjectID       string   `json:"projectId"`
	AssignedUserIDs []string `json:"assignedUserIds"`
}

type projectResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	Status           string    `json:"status"`
	AssignedUsers    []string  `json:"assignedUsers"`
	TotalBudgetHours int       `json:"totalBudgetHours"`
	TotalBilledHours int       `json:"totalBilledHours"`
}

type projectStatsResponse struct {
	ProjectID           string   `json:"projectId"`
	ProjectName         string   `json:"projectName"`
	ActiveResourceCount int      `json:"activeResourceCount"`
	TotalBilledHours    int      `json:"totalBilledHours"`
	ProjectProgress     float64  `json:"projectProgress"`
	ActiveResources     []string `json:"activeResources"`
}

type projectDetailResponse struct {
	ProjectID        string                     `json:"projectId"`
	ProjectName      string                     `json:"projectName"`
	Description      string                     `json:"description"`
	Status           string                     `json:"status"`
	StartDate        time.Time                  `json:"startDate"`
	EndDate          time.Time                  `json:"endDate"`
	AssignedUsers    []userResponse             `json:"assignedUsers"`
	TotalBudgetHours int                        `json:"totalBudgetHours"`
	TotalBilledHours int                        `json:"totalBilledHours"`
	RecentTimesheets []timesheetSummaryResponse `json:"recentTimesheets"`
}

// --- Timesheets ---

type submitTimesheetRequest struct {
	ProjectID     string         `json:"projectId"     validate:"required"`
	WeekStartDate string         `json:"weekStartDate" validate:"required,datetime=2006-01-02"`
	DailyHours    map[string]int `json:"dailyHours"    validate:"required,min=1,dive,keys,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY,endkeys,min=0,max=24"`
	Description   string         `json:"description"   validate:"max=500"`
}

type timesheetResponse struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	ProjectID     string         `json:"projectId"`
	WeekStartDate string         `json:"weekStartDate"`
	DailyHours    map[string]int `json:"dailyHours"`
	TotalHours    int            `json:"totalHours"`
	Description   string         `json:"description"`
	Status        string         `json:"status"`
	SubmittedAt   time.Time      `json:"submittedAt"`
}

type timesheetSummaryResponse struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"projectId"`
	WeekStartDate string    `json:"weekStartDate"`
	TotalHours    int       `json:"totalHours"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

type timesheetStatsResponse struct {
	TotalSubmittedTimesheets int                        `json:"totalSubmittedTimesheets"`
	TotalBilledHours         int                        `json:"totalBilledHours"`
	HoursPerProject          map[string]int             `json:"hoursPerProject"`
	HoursPerUser             map[string]int             `json:"hoursPerUser"`
	RecentTimesheets         []timesheetSummaryResponse `json:"recentTimesheets"`
}

// --- Metrics ---

type dashboardResponse struct {
	ActiveProjects     int                       `json:"activeProjects"`
	TotalResources     int                       `json:"totalResources"`
	TotalBilledHours   int                       `json:"totalBilledHours"`
	AverageUtilization float64                   `json:"averageUtilization"`
	TopProjects        []projectStatsResponse    `json:"topProjects"`
	TopResources       []userWeeklyStatsResponse `json:"topResources"`
}

type publishMetricsRequest struct {
	ReportDate      string                    `json:"reportDate"      validate:"required,datetime=2006-01-02"`
	ProjectMetrics  []projectStatsResponse    `json:"projectMetrics"  validate:"required,min=1"`
	ResourceMetrics []userWeeklyStatsResponse `json:"resourceMetrics"`
	Comments        string                    `json:"comments"`
}

type acceptedResponse struct {
	Status string `json:"status"`
}
