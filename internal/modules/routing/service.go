package routing

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"fieldops-backend/internal/metrics"
	"fieldops-backend/internal/models"
	"fieldops-backend/internal/modules/geocoding"
	"fieldops-backend/internal/modules/travel"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AddressResolver is the slice of the geocoding service the optimizer needs.
type AddressResolver interface {
	ResolveAll(ctx context.Context, addresses []string) (map[string]models.Coordinates, []string)
}

// TechnicianDirectory is the slice of the roster the optimizer needs.
type TechnicianDirectory interface {
	ListActive(ctx context.Context, companyID string) ([]*models.Technician, error)
}

// ServiceInterface defines the route optimization operations exposed to the API.
type ServiceInterface interface {
	OptimizeRoutes(ctx context.Context, companyID string, req models.OptimizeRoutesRequest) ([]*models.OptimizedRoute, error)
	SaveOptimizedRoutes(ctx context.Context, routes []*models.OptimizedRoute, companyID, createdBy string) []models.RouteSaveStatus
	GetRouteAnalytics(ctx context.Context, companyID string, start, end time.Time) ([]*models.TechnicianRouteStats, error)
}

// Service orchestrates one optimization run per (company, date): geocode,
// partition per technician, sequence, build, score. Route computation is a
// pure function of its inputs; persistence is the separate, per-technician
// isolated SaveOptimizedRoutes step.
type Service struct {
	repo      RepositoryInterface
	directory TechnicianDirectory
	resolver  AddressResolver
	estimator travel.Estimator
	sequencer Sequencer
	lock      *RunLock

	dayStart        string // "15:04" anchor for the first stop
	defaultMaxHours float64
}

// NewService creates the routing service.
func NewService(
	repo RepositoryInterface,
	directory TechnicianDirectory,
	resolver AddressResolver,
	estimator travel.Estimator,
	sequencer Sequencer,
	lock *RunLock,
	dayStart string,
	defaultMaxHours float64,
) *Service {
	if dayStart == "" {
		dayStart = "08:00"
	}
	if defaultMaxHours <= 0 {
		defaultMaxHours = 8
	}
	return &Service{
		repo:            repo,
		directory:       directory,
		resolver:        resolver,
		estimator:       estimator,
		sequencer:       sequencer,
		lock:            lock,
		dayStart:        dayStart,
		defaultMaxHours: defaultMaxHours,
	}
}

// OptimizeRoutes computes one optimized route per technician holding at
// least one eligible job on the date. Unresolvable addresses exclude only
// their own job; per-technician computation runs concurrently.
func (s *Service) OptimizeRoutes(ctx context.Context, companyID string, req models.OptimizeRoutesRequest) (_ []*models.OptimizedRoute, err error) {
	date, perr := time.Parse("2006-01-02", req.Date)
	if perr != nil {
		return nil, fmt.Errorf("service.OptimizeRoutes: invalid date %q: %w", req.Date, perr)
	}

	release, err := s.lock.Acquire(ctx, companyID, req.Date)
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	defer func() {
		metrics.OptimizationDuration.Observe(time.Since(started).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.OptimizationRuns.WithLabelValues(outcome).Inc()
	}()

	jobs, err := s.repo.ListEligibleJobs(ctx, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("service.OptimizeRoutes: %w", err)
	}

	roster, err := s.directory.ListActive(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("service.OptimizeRoutes: %w", err)
	}
	roster = filterRoster(roster, req.TechnicianIDs)
	if len(roster) == 0 {
		return nil, models.ErrNoTechnicians
	}

	if len(jobs) == 0 {
		return []*models.OptimizedRoute{}, nil
	}

	addresses := make([]string, 0, len(jobs))
	for _, j := range jobs {
		addresses = append(addresses, j.Address)
	}
	coords, failed := s.resolver.ResolveAll(ctx, addresses)
	if len(failed) > 0 {
		log.Printf("optimize company=%s date=%s unresolved_addresses=%d", companyID, req.Date, len(failed))
	}

	// Jobs whose address never resolved are excluded from this run and
	// reported in each route's metadata, never fatal to the batch.
	var skippedJobIDs []string
	routable := make([]*models.Job, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := coords[geocoding.NormalizeAddress(j.Address)]; ok {
			routable = append(routable, j)
		} else {
			skippedJobIDs = append(skippedJobIDs, j.ID)
		}
	}

	assignments, unplaced := NewAssigner(req.AssignmentPolicy).Assign(routable, roster)
	for _, j := range unplaced {
		log.Printf("optimize company=%s date=%s job=%s has no routable technician", companyID, req.Date, j.ID)
		skippedJobIDs = append(skippedJobIDs, j.ID)
	}

	dayStart, err := clockOnDate(date, s.dayStart)
	if err != nil {
		return nil, fmt.Errorf("service.OptimizeRoutes: %w", err)
	}
	maxHours := req.MaxHoursPerRoute
	if maxHours <= 0 {
		maxHours = s.defaultMaxHours
	}
	includeTravel := req.IncludeTravelTime == nil || *req.IncludeTravelTime

	byID := make(map[string]*models.Technician, len(roster))
	for _, t := range roster {
		byID[t.ID] = t
	}

	var (
		mu     sync.Mutex
		routes []*models.OptimizedRoute
	)
	g, gctx := errgroup.WithContext(ctx)
	for techID, techJobs := range assignments {
		if len(techJobs) == 0 {
			continue
		}
		tech, ok := byID[techID]
		if !ok {
			continue
		}
		techJobs := techJobs
		g.Go(func() error {
			route, err := s.computeRoute(gctx, companyID, tech, techJobs, date, dayStart, maxHours, includeTravel, coords)
			if err != nil {
				return err
			}
			route.SkippedJobIDs = skippedJobIDs
			mu.Lock()
			routes = append(routes, route)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service.OptimizeRoutes: %w", err)
	}

	sort.Slice(routes, func(i, k int) bool { return routes[i].TechnicianID < routes[k].TechnicianID })
	return routes, nil
}

// computeRoute sequences, builds and scores one technician's day.
func (s *Service) computeRoute(
	ctx context.Context,
	companyID string,
	tech *models.Technician,
	jobs []*models.Job,
	date, dayStart time.Time,
	maxHours float64,
	includeTravel bool,
	coords map[string]models.Coordinates,
) (*models.OptimizedRoute, error) {
	locations := make([]models.Location, 0, len(jobs))
	for _, j := range jobs {
		locations = append(locations, jobToLocation(j, coords[geocoding.NormalizeAddress(j.Address)]))
	}

	ordered := s.sequencer.Sequence(locations, dayStart)
	stops, err := BuildRoute(ctx, ordered, dayStart, s.estimator, includeTravel)
	if err != nil {
		return nil, err
	}

	// Stops that would run past the route-length cap stay unscheduled and
	// are reported explicitly rather than silently dropped.
	limit := dayStart.Add(time.Duration(maxHours * float64(time.Hour)))
	var unscheduled []string
	kept := stops
	for i, stop := range stops {
		if stop.DepartureTime.After(limit) {
			kept = stops[:i]
			for _, over := range stops[i:] {
				unscheduled = append(unscheduled, over.Location.JobID)
			}
			break
		}
	}

	route := &models.OptimizedRoute{
		ID:                uuid.NewString(),
		CompanyID:         companyID,
		TechnicianID:      tech.ID,
		TechnicianName:    tech.Name,
		RouteDate:         date,
		Stops:             kept,
		UnscheduledJobIDs: unscheduled,
		CreatedAt:         time.Now().UTC(),
	}

	for i, stop := range kept {
		if i > 0 {
			route.TotalDistanceMiles += s.estimator.Distance(kept[i-1].Location.Coordinates, stop.Location.Coordinates)
		}
		route.TotalTravelTimeMinutes += stop.TravelTimeFromPrevious
		route.TotalWorkTimeMinutes += stop.Location.EstimatedDurationMinutes
	}
	if len(kept) > 0 {
		route.EstimatedCompletionTime = kept[len(kept)-1].DepartureTime
	}
	route.EfficiencyScore = Score(len(kept), route.TotalDistanceMiles, route.TotalTravelTimeMinutes, route.TotalWorkTimeMinutes)

	return route, nil
}

// SaveOptimizedRoutes persists each route as its own isolated unit: one
// technician's failure is reported in the batch result but never blocks or
// rolls back the others.
func (s *Service) SaveOptimizedRoutes(ctx context.Context, routes []*models.OptimizedRoute, companyID, createdBy string) []models.RouteSaveStatus {
	statuses := make([]models.RouteSaveStatus, 0, len(routes))
	for _, route := range routes {
		route.CompanyID = companyID
		route.CreatedBy = createdBy

		status := models.RouteSaveStatus{TechnicianID: route.TechnicianID, RouteID: route.ID}
		if err := s.repo.SaveRoute(ctx, route); err != nil {
			log.Printf("save route failed company=%s technician=%s err=%v", companyID, route.TechnicianID, err)
			metrics.RoutesSaved.WithLabelValues("error").Inc()
			status.Error = err.Error()
		} else {
			metrics.RoutesSaved.WithLabelValues("ok").Inc()
			status.Saved = true
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// GetRouteAnalytics returns per-technician aggregates over saved routes.
func (s *Service) GetRouteAnalytics(ctx context.Context, companyID string, start, end time.Time) ([]*models.TechnicianRouteStats, error) {
	stats, err := s.repo.RouteAnalytics(ctx, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("service.GetRouteAnalytics: %w", err)
	}
	return stats, nil
}

// jobToLocation builds the transient routing location for a job. A confirmed
// job's agreed interval becomes its hard arrival window; merely scheduled
// jobs are free to move within the day.
func jobToLocation(j *models.Job, coords models.Coordinates) models.Location {
	loc := models.Location{
		Address:                  j.Address,
		Coordinates:              coords,
		JobID:                    j.ID,
		EstimatedDurationMinutes: j.DurationMinutes,
		Priority:                 j.Priority,
	}
	if j.Status == models.JobStatusConfirmed && j.ScheduledStart != nil && j.ScheduledEnd != nil {
		loc.TimeWindowStart = j.ScheduledStart
		loc.TimeWindowEnd = j.ScheduledEnd
	}
	return loc
}

func filterRoster(roster []*models.Technician, ids []string) []*models.Technician {
	if len(ids) == 0 {
		return roster
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]*models.Technician, 0, len(ids))
	for _, t := range roster {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// clockOnDate parses an "15:04" clock string onto the given date.
func clockOnDate(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
