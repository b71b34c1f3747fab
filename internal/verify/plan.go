package verify

import (
	"context"

	"go.uber.org/zap"
)

// Plan declares the fixed scenario order for one verification run:
// tracker content first, then process state, then one service
// availability scenario per declared endpoint.
type Plan struct {
	Content   *ContentCheck
	Expected  []string
	Manager   ProcessManager
	Endpoints []Endpoint
	Logger    *zap.Logger
}

// Scenarios builds the ordered scenario list bound to the run's session.
func (p Plan) Scenarios(sess Session) []Scenario {
	var scs []Scenario

	if p.Content != nil {
		cp := NewContentProbe(sess, p.Logger)
		chk := *p.Content
		scs = append(scs, Scenario{
			Name: chk.Name,
			Run: func(ctx context.Context) []ProbeResult {
				return []ProbeResult{cp.Check(ctx, chk)}
			},
		})
	}

	if p.Manager != nil && len(p.Expected) > 0 {
		psp := &ProcessStateProbe{Manager: p.Manager}
		expected := p.Expected
		scs = append(scs, Scenario{
			Name: "Process State",
			Run: func(ctx context.Context) []ProbeResult {
				return psp.CheckServices(ctx, expected)
			},
		})
	}

	sp := NewServiceProbe(sess, p.Logger)
	for _, ep := range p.Endpoints {
		ep := ep
		scs = append(scs, Scenario{
			Name: "Service: " + ep.Name,
			Run: func(ctx context.Context) []ProbeResult {
				return []ProbeResult{sp.Check(ctx, ep)}
			},
		})
	}

	return scs
}
