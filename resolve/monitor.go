package resolve

import "github.com/vitalsign/healthqa/core"

// Monitor provides hooks to observe a resolution.
// Implement this interface to track which stages were touched and why a
// cached answer was or was not served.
type Monitor interface {
	Start(raw string)
	Rewritten(raw, rewritten string)
	StageMiss(stage core.Stage)
	CacheInconsistent(answer string)
	Unanswered(query string)
	Finish(resolution core.Resolution)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) Rewritten(_, _ string)              {}
func (n *noopMonitor) StageMiss(_ core.Stage)             {}
func (n *noopMonitor) CacheInconsistent(_ string)         {}
func (n *noopMonitor) Unanswered(_ string)                {}
func (n *noopMonitor) Finish(_ core.Resolution)           {}
