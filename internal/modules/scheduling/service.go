package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldops-backend/internal/models"
)

// ServiceInterface defines the scheduling operations exposed to the API.
type ServiceInterface interface {
	GetAvailableTimeSlots(ctx context.Context, companyID string, date time.Time, durationMinutes int, technicianID string) ([]models.TimeSlot, error)
	CheckTechnicianAvailability(ctx context.Context, companyID, technicianID string, start, end time.Time, excludeJobID string) (bool, error)
	RescheduleJob(ctx context.Context, companyID, jobID string, start, end time.Time) (*models.Job, error)
}

// Service implements the availability solver and conflict checker. Both use
// the same half-open interval convention: a booking occupies [start, end),
// and two intervals overlap iff a.start < b.end && a.end > b.start.
type Service struct {
	repo        RepositoryInterface
	granularity time.Duration
	breakWindow models.BreakWindow
}

// NewService creates a scheduling service. granularityMinutes is the step
// between candidate slot starts; breakWindow is the fixed daily break
// excluded from availability.
func NewService(repo RepositoryInterface, granularityMinutes int, breakWindow models.BreakWindow) *Service {
	if granularityMinutes <= 0 {
		granularityMinutes = 30
	}
	return &Service{
		repo:        repo,
		granularity: time.Duration(granularityMinutes) * time.Minute,
		breakWindow: breakWindow,
	}
}

// overlaps is the shared half-open interval test.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// clockOnDate parses an "15:04" clock string onto the given date.
func clockOnDate(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// GetAvailableTimeSlots enumerates feasible appointment slots for one day.
// It steps through the business day at the configured granularity and keeps
// every candidate [start, start+duration) that fits before closing and
// overlaps neither an existing booking nor the break window. A day marked
// closed (or without configured hours) yields an empty list, not an error.
// The result is deterministic and chronological.
func (s *Service) GetAvailableTimeSlots(ctx context.Context, companyID string, date time.Time, durationMinutes int, technicianID string) ([]models.TimeSlot, error) {
	hours, err := s.repo.GetBusinessHours(ctx, companyID, date.Weekday())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return []models.TimeSlot{}, nil
		}
		return nil, fmt.Errorf("service.GetAvailableTimeSlots: %w", err)
	}
	if hours.Closed {
		return []models.TimeSlot{}, nil
	}

	open, err := clockOnDate(date, hours.Open)
	if err != nil {
		return nil, fmt.Errorf("service.GetAvailableTimeSlots: %w", err)
	}
	close, err := clockOnDate(date, hours.Close)
	if err != nil {
		return nil, fmt.Errorf("service.GetAvailableTimeSlots: %w", err)
	}

	var breakStart, breakEnd time.Time
	haveBreak := s.breakWindow.Start != "" && s.breakWindow.End != ""
	if haveBreak {
		if breakStart, err = clockOnDate(date, s.breakWindow.Start); err != nil {
			return nil, fmt.Errorf("service.GetAvailableTimeSlots: %w", err)
		}
		if breakEnd, err = clockOnDate(date, s.breakWindow.End); err != nil {
			return nil, fmt.Errorf("service.GetAvailableTimeSlots: %w", err)
		}
	}

	bookings, err := s.repo.ListActiveJobs(ctx, companyID, technicianID, open, close)
	if err != nil {
		return nil, fmt.Errorf("service.GetAvailableTimeSlots: %w", err)
	}

	duration := time.Duration(durationMinutes) * time.Minute
	slots := []models.TimeSlot{}

	for start := open; !start.Add(duration).After(close); start = start.Add(s.granularity) {
		end := start.Add(duration)

		if haveBreak && overlaps(start, end, breakStart, breakEnd) {
			continue
		}

		conflicted := false
		for _, b := range bookings {
			if b.ScheduledStart == nil || b.ScheduledEnd == nil {
				continue
			}
			if overlaps(start, end, *b.ScheduledStart, *b.ScheduledEnd) {
				conflicted = true
				break
			}
		}
		if conflicted {
			continue
		}

		slots = append(slots, models.TimeSlot{
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: durationMinutes,
			TechnicianID:    technicianID,
		})
	}

	return slots, nil
}

// CheckTechnicianAvailability reports whether the company's technician is
// free for the half-open interval [start, end). excludeJobID lets a job
// being rescheduled ignore its own current interval.
func (s *Service) CheckTechnicianAvailability(ctx context.Context, companyID, technicianID string, start, end time.Time, excludeJobID string) (bool, error) {
	conflicts, err := s.repo.ListConflictingJobs(ctx, companyID, technicianID, start, end, excludeJobID)
	if err != nil {
		return false, fmt.Errorf("service.CheckTechnicianAvailability: %w", err)
	}
	return len(conflicts) == 0, nil
}

// RescheduleJob moves a job to a new interval after a conflict check against
// the technician's other active jobs. A rejection carries the conflicting
// job IDs; nothing is written in that case.
func (s *Service) RescheduleJob(ctx context.Context, companyID, jobID string, start, end time.Time) (*models.Job, error) {
	job, err := s.repo.FindJobByID(ctx, companyID, jobID)
	if err != nil {
		return nil, fmt.Errorf("service.RescheduleJob: %w", err)
	}

	if job.TechnicianID != "" {
		conflicts, err := s.repo.ListConflictingJobs(ctx, companyID, job.TechnicianID, start, end, jobID)
		if err != nil {
			return nil, fmt.Errorf("service.RescheduleJob: %w", err)
		}
		if len(conflicts) > 0 {
			ids := make([]string, 0, len(conflicts))
			for _, c := range conflicts {
				ids = append(ids, c.ID)
			}
			return nil, &models.ConflictError{TechnicianID: job.TechnicianID, JobIDs: ids}
		}
	}

	if err := s.repo.UpdateJobSchedule(ctx, jobID, start, end); err != nil {
		return nil, fmt.Errorf("service.RescheduleJob: %w", err)
	}

	job.ScheduledStart = &start
	job.ScheduledEnd = &end
	return job, nil
}
