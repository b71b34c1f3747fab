package verify

import "time"

// Status is the outcome of a single check. There are exactly three
// outcomes; no partial states.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusWarning Status = "warning"
)

// ProbeResult records the outcome of one check. It is immutable once
// recorded: probes build the full value and hand it to the Collector.
type ProbeResult struct {
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`

	// ArtifactRef points at a captured page snapshot, relative to the
	// run's artifacts directory. Empty when no snapshot was taken.
	ArtifactRef string `json:"artifactRef,omitempty"`
}

// Collector accumulates results in record order. It is only ever written
// by the orchestrator, which runs scenarios strictly one at a time, so no
// locking is needed; the insertion order is the canonical ordering used
// by the report.
type Collector struct {
	results []ProbeResult
}

func NewCollector() *Collector {
	return &Collector{results: make([]ProbeResult, 0, 16)}
}

func (c *Collector) Record(r ProbeResult) {
	c.results = append(c.results, r)
}

// All returns a copy of the recorded sequence in insertion order.
func (c *Collector) All() []ProbeResult {
	out := make([]ProbeResult, len(c.results))
	copy(out, c.results)
	return out
}

func (c *Collector) Len() int { return len(c.results) }
