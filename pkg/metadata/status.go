package metadata

import "fmt"

// Status is the categorical alert status of one (inventory, item, location)
// key. It carries a total severity order; sorting and alert grouping use the
// rank, never the alphabetical value.
type Status string

const (
	StatusOutOfStock   Status = "out_of_stock"
	StatusExpired      Status = "expired"
	StatusRunningLow   Status = "running_low"
	StatusExpiring     Status = "expiring"
	StatusUnderstocked Status = "understocked"
	StatusFullyStocked Status = "fully_stocked"
)

// severityRank orders statuses most urgent first.
var severityRank = map[Status]int{
	StatusOutOfStock:   0,
	StatusExpired:      1,
	StatusRunningLow:   2,
	StatusExpiring:     3,
	StatusUnderstocked: 4,
	StatusFullyStocked: 5,
}

func NewStatus(value string) (Status, error) {
	status := Status(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func (s Status) isValid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank returns the severity rank, 0 being the most urgent. Unknown values
// rank after every valid status.
func (s Status) Rank() int {
	rank, ok := severityRank[s]
	if !ok {
		return len(severityRank)
	}
	return rank
}

func (s Status) MoreUrgentThan(other Status) bool {
	return s.Rank() < other.Rank()
}
