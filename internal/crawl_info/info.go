package crawlinfo

import (
	"time"

	"github.com/devsidequests/participants/internal/enrich"
)

// Info summarises one run.
type Info struct {
	RunID           string
	Mode            string
	StartedAt       time.Time
	Duration        time.Duration
	Forks           int
	Participants    int
	NewParticipants int
	Projects        int
	ActiveQuests    int
	Completions     int
	Output          string
	Report          enrich.Report
}

// Degraded reports whether some entities could not be processed.
func (i *Info) Degraded() bool {
	return i.Report.Len() > 0
}
