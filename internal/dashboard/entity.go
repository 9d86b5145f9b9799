// AngelaMos | 2026
// entity.go

package dashboard

import (
	"time"

	"github.com/carterperez-dev/hotel-maintenance/internal/repair"
)

const (
	RecentLimit      = 5
	DefaultDays      = 30
	MaxDays          = 90
	summaryKeyPrefix = "dashboard:summary:"
	analyticsKey     = "dashboard:analytics:"
)

type StatusCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

func (c *StatusCounts) add(status repair.Status, n int) {
	switch status {
	case repair.StatusPending:
		c.Pending += n
	case repair.StatusInProgress:
		c.InProgress += n
	case repair.StatusCompleted:
		c.Completed += n
	}
	c.Total += n
}

type Summary struct {
	Counts StatusCounts            `json:"counts"`
	Recent []repair.RepairResponse `json:"recent"`
}

type Bucket struct {
	Key   string `json:"key"   db:"key"`
	Count int    `json:"count" db:"count"`
}

type TechnicianCount struct {
	TechnicianID   string `json:"technician_id"   db:"technician_id"`
	TechnicianName string `json:"technician_name" db:"technician_name"`
	Completed      int    `json:"completed"       db:"completed"`
}

type DailyCount struct {
	Day   time.Time `json:"day"   db:"day"`
	Count int       `json:"count" db:"count"`
}

type Analytics struct {
	Days                  int               `json:"days"`
	ByCategory            []Bucket          `json:"by_category"`
	ByUrgency             []Bucket          `json:"by_urgency"`
	TechnicianCompletions []TechnicianCount `json:"technician_completions"`
	DailyCreated          []DailyCount      `json:"daily_created"`
	GeneratedAt           time.Time         `json:"generated_at"`
}
