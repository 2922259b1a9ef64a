package rest

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// DateLayout is the wire format of due dates.
const DateLayout = "2006-01-02"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type profileResponse struct {
	User userResponse `json:"user"`
}

// taskRequest is the body of create and update calls. Fields left out of the
// JSON stay nil; id, user and createdAt are not listed and so are ignored.
type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     string    `json:"dueDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type statsResponse struct {
	Total        int64 `json:"total"`
	Completed    int64 `json:"completed"`
	Pending      int64 `json:"pending"`
	InProgress   int64 `json:"inProgress"`
	HighPriority int64 `json:"highPriority"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toTaskResponse(t *models.Task) taskResponse {
	r := taskResponse{
		ID:          t.ID,
		User:        t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		r.DueDate = t.DueDate.Format(DateLayout)
	}
	return r
}

func toTaskResponses(tasks []*models.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toStatsResponse(s *models.TaskStats) statsResponse {
	return statsResponse{
		Total:        s.Total,
		Completed:    s.Completed,
		Pending:      s.Pending,
		InProgress:   s.InProgress,
		HighPriority: s.HighPriority,
	}
}

func (r *taskRequest) toNewTask() (models.NewTask, error) {
	due, err := parseDueDate(r.DueDate)
	if err != nil {
		return models.NewTask{}, err
	}

	return models.NewTask{
		Title:       deref(r.Title),
		Description: deref(r.Description),
		Category:    deref(r.Category),
		Priority:    models.Priority(deref(r.Priority)),
		Status:      models.Status(deref(r.Status)),
		DueDate:     due,
	}, nil
}

func (r *taskRequest) toPatch() (models.TaskPatch, error) {
	due, err := parseDueDate(r.DueDate)
	if err != nil {
		return models.TaskPatch{}, err
	}

	p := models.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		DueDate:     due,
	}
	if r.Priority != nil {
		v := models.Priority(*r.Priority)
		p.Priority = &v
	}
	if r.Status != nil {
		v := models.Status(*r.Status)
		p.Status = &v
	}
	return p, nil
}

// parseDueDate accepts "YYYY-MM-DD" or RFC 3339 and keeps only the date.
// Nil and empty input mean no due date.
func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)

	if d, err := time.Parse(DateLayout, v); err == nil {
		return &d, nil
	}
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		return &d, nil
	}
	return nil, fmt.Errorf("%w: invalid dueDate %q, expected YYYY-MM-DD", common.ErrorValidation, v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
