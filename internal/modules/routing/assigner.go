package routing

import (
	"sort"

	"fieldops-backend/internal/models"
)

// Assigner partitions a day's jobs across the technician roster before
// sequencing. Two policies exist because the CRM historically supported
// both: routing against pre-assigned technicians, and spreading unassigned
// work evenly. Neither is silently substituted for the other; callers pick.
type Assigner interface {
	// Assign returns jobs grouped by technician ID. Jobs it cannot place are
	// returned separately so the caller can report them.
	Assign(jobs []*models.Job, roster []*models.Technician) (map[string][]*models.Job, []*models.Job)
}

// PreassignedAssigner treats the technician already on each job record as
// authoritative. Jobs without a technician, or assigned to someone outside
// the roster, are left unplaced.
type PreassignedAssigner struct{}

func (PreassignedAssigner) Assign(jobs []*models.Job, roster []*models.Technician) (map[string][]*models.Job, []*models.Job) {
	inRoster := make(map[string]bool, len(roster))
	for _, t := range roster {
		inRoster[t.ID] = true
	}

	assigned := make(map[string][]*models.Job)
	var unplaced []*models.Job
	for _, j := range jobs {
		if j.TechnicianID != "" && inRoster[j.TechnicianID] {
			assigned[j.TechnicianID] = append(assigned[j.TechnicianID], j)
			continue
		}
		unplaced = append(unplaced, j)
	}
	return assigned, unplaced
}

// BalancedAssigner keeps pre-assignments and spreads the remaining
// unassigned jobs round-robin across the roster by count. Jobs are taken in
// priority order (urgent first) and both sides are sorted by ID first, so
// the distribution is deterministic for identical inputs.
type BalancedAssigner struct{}

func (BalancedAssigner) Assign(jobs []*models.Job, roster []*models.Technician) (map[string][]*models.Job, []*models.Job) {
	assigned, unplaced := PreassignedAssigner{}.Assign(jobs, roster)
	if len(roster) == 0 {
		return assigned, unplaced
	}

	sort.Slice(unplaced, func(i, k int) bool {
		if unplaced[i].Priority != unplaced[k].Priority {
			return unplaced[i].Priority > unplaced[k].Priority
		}
		return unplaced[i].ID < unplaced[k].ID
	})

	techIDs := make([]string, 0, len(roster))
	for _, t := range roster {
		techIDs = append(techIDs, t.ID)
	}
	sort.Strings(techIDs)

	// Start each round with the technician carrying the lightest load so
	// pre-assigned work is counted toward balance.
	for _, j := range unplaced {
		best := techIDs[0]
		for _, id := range techIDs[1:] {
			if len(assigned[id]) < len(assigned[best]) {
				best = id
			}
		}
		assigned[best] = append(assigned[best], j)
	}

	return assigned, nil
}

// NewAssigner maps a request policy string onto an Assigner. The
// pre-assignment policy is the default.
func NewAssigner(policy string) Assigner {
	if policy == models.AssignmentPolicyBalanced {
		return BalancedAssigner{}
	}
	return PreassignedAssigner{}
}
