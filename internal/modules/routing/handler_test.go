package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fieldops-backend/internal/models"

	"github.com/labstack/echo/v4"
)

type stubRoutingService struct {
	analyticsStart time.Time
	analyticsEnd   time.Time
}

func (s *stubRoutingService) OptimizeRoutes(_ context.Context, _ string, _ models.OptimizeRoutesRequest) ([]*models.OptimizedRoute, error) {
	return []*models.OptimizedRoute{}, nil
}

func (s *stubRoutingService) SaveOptimizedRoutes(_ context.Context, _ []*models.OptimizedRoute, _, _ string) []models.RouteSaveStatus {
	return nil
}

func (s *stubRoutingService) GetRouteAnalytics(_ context.Context, _ string, start, end time.Time) ([]*models.TechnicianRouteStats, error) {
	s.analyticsStart, s.analyticsEnd = start, end
	return []*models.TechnicianRouteStats{}, nil
}

func TestGetRouteAnalyticsEndDateInclusive(t *testing.T) {
	svc := &stubRoutingService{}
	h := NewHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/routes/analytics?start=2026-03-01&end=2026-03-02", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", "user-1")
	c.Set("companyID", "co-1")

	if err := h.GetRouteAnalytics(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// The caller's end date is inclusive; the service sees the half-open
	// bound exactly one day later, so routes on 2026-03-02 count and routes
	// on 2026-03-03 do not.
	wantStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	if !svc.analyticsStart.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", svc.analyticsStart, wantStart)
	}
	if !svc.analyticsEnd.Equal(wantEnd) {
		t.Fatalf("end = %v, want %v", svc.analyticsEnd, wantEnd)
	}
}
