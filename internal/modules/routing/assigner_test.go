package routing

import (
	"testing"

	"fieldops-backend/internal/models"
)

func roster(ids ...string) []*models.Technician {
	out := make([]*models.Technician, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.Technician{ID: id, Status: models.TechnicianStatusActive})
	}
	return out
}

func job(id, techID string, priority int) *models.Job {
	return &models.Job{ID: id, TechnicianID: techID, Priority: priority}
}

func TestPreassignedAssigner(t *testing.T) {
	jobs := []*models.Job{
		job("j1", "t1", 3),
		job("j2", "t2", 3),
		job("j3", "t1", 3),
		job("j4", "", 3),       // no technician
		job("j5", "t-gone", 3), // technician not in roster
	}

	assigned, unplaced := PreassignedAssigner{}.Assign(jobs, roster("t1", "t2"))

	if len(assigned["t1"]) != 2 || len(assigned["t2"]) != 1 {
		t.Fatalf("assignment counts t1=%d t2=%d, want 2 and 1", len(assigned["t1"]), len(assigned["t2"]))
	}
	if len(unplaced) != 2 {
		t.Fatalf("unplaced = %d, want 2", len(unplaced))
	}
	got := map[string]bool{unplaced[0].ID: true, unplaced[1].ID: true}
	if !got["j4"] || !got["j5"] {
		t.Fatalf("unplaced IDs = %v, want j4 and j5", got)
	}
}

func TestBalancedAssignerSpreadsUnassigned(t *testing.T) {
	jobs := []*models.Job{
		job("j1", "t1", 3), // pre-assigned work counts toward balance
		job("j2", "", 3),
		job("j3", "", 3),
		job("j4", "", 3),
	}

	assigned, unplaced := BalancedAssigner{}.Assign(jobs, roster("t1", "t2"))

	if len(unplaced) != 0 {
		t.Fatalf("balanced policy left %d jobs unplaced", len(unplaced))
	}
	if len(assigned["t1"]) != 2 || len(assigned["t2"]) != 2 {
		t.Fatalf("assignment counts t1=%d t2=%d, want 2 and 2", len(assigned["t1"]), len(assigned["t2"]))
	}
}

func TestBalancedAssignerUrgentFirst(t *testing.T) {
	jobs := []*models.Job{
		job("j-low", "", 1),
		job("j-high", "", 5),
	}

	assigned, _ := BalancedAssigner{}.Assign(jobs, roster("t1", "t2"))

	// Jobs are taken in priority order and technicians in ID order, so the
	// urgent job lands on t1 deterministically.
	if len(assigned["t1"]) != 1 || assigned["t1"][0].ID != "j-high" {
		t.Fatalf("t1 got %+v, want the high-priority job first", assigned["t1"])
	}
}

func TestBalancedAssignerDeterministic(t *testing.T) {
	jobs := []*models.Job{
		job("j1", "", 3),
		job("j2", "", 3),
		job("j3", "", 3),
	}

	first, _ := BalancedAssigner{}.Assign(jobs, roster("t2", "t1"))
	second, _ := BalancedAssigner{}.Assign(jobs, roster("t1", "t2"))

	for tech, jobsFirst := range first {
		jobsSecond := second[tech]
		if len(jobsFirst) != len(jobsSecond) {
			t.Fatalf("technician %s count differs between runs", tech)
		}
		for i := range jobsFirst {
			if jobsFirst[i].ID != jobsSecond[i].ID {
				t.Fatalf("technician %s order differs between runs", tech)
			}
		}
	}
}

func TestNewAssignerPolicySelection(t *testing.T) {
	if _, ok := NewAssigner(models.AssignmentPolicyBalanced).(BalancedAssigner); !ok {
		t.Fatalf("balanced policy did not select BalancedAssigner")
	}
	if _, ok := NewAssigner("").(PreassignedAssigner); !ok {
		t.Fatalf("empty policy did not default to PreassignedAssigner")
	}
}
