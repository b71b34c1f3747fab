package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// ProcessManager reports which named services are currently running.
type ProcessManager interface {
	Running(ctx context.Context) (map[string]bool, error)
}

// PM2 queries the pm2 process manager via `pm2 jlist`.
type PM2 struct {
	Bin string
}

func NewPM2(bin string) *PM2 {
	if bin == "" {
		bin = "pm2"
	}
	return &PM2{Bin: bin}
}

type pm2Process struct {
	Name   string `json:"name"`
	PM2Env struct {
		Status string `json:"status"`
	} `json:"pm2_env"`
}

func (p *PM2) Running(ctx context.Context) (map[string]bool, error) {
	out, err := exec.CommandContext(ctx, p.Bin, "jlist").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessManagerUnreachable, err)
	}
	var procs []pm2Process
	if err := json.Unmarshal(out, &procs); err != nil {
		return nil, fmt.Errorf("%w: unparseable jlist output: %v", ErrProcessManagerUnreachable, err)
	}
	running := make(map[string]bool, len(procs))
	for _, proc := range procs {
		if proc.PM2Env.Status == "online" {
			running[proc.Name] = true
		}
	}
	return running, nil
}

// ProcessStateProbe checks that every expected service is running.
type ProcessStateProbe struct {
	Manager ProcessManager
}

// CheckServices emits one result per expected name, in the declared
// order. If the manager query itself fails it emits a single fail result
// for the whole probe, so "infra probe failed" stays distinct from
// "service absent".
func (p *ProcessStateProbe) CheckServices(ctx context.Context, expected []string) []ProbeResult {
	running, err := p.Manager.Running(ctx)
	if err != nil {
		return []ProbeResult{{
			Name:      "Process State",
			Status:    StatusFail,
			Message:   err.Error(),
			Timestamp: time.Now().UTC(),
		}}
	}

	results := make([]ProbeResult, 0, len(expected))
	for _, name := range expected {
		r := ProbeResult{
			Name:      "Process: " + name,
			Timestamp: time.Now().UTC(),
		}
		if running[name] {
			r.Status = StatusPass
			r.Message = "service is running"
		} else {
			r.Status = StatusFail
			r.Message = "expected service is not running"
		}
		results = append(results, r)
	}
	return results
}
