package recommend

import (
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/selection"
	"github.com/poiesic/libris/similarity"
)

// Monitor provides hooks to observe a recommendation request.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(query string)
	AfterContextLoad(profile selection.Profile)
	AfterCandidatePool(pool []*core.Book)
	AfterExclusion(pool []*core.Book)
	AfterRanking(results []similarity.Scored)
	AfterSelection(picks []selection.Pick)
	FallbackUsed(err error)
	Finish(result *core.Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterContextLoad(_ selection.Profile)  {}
func (n *noopMonitor) AfterCandidatePool(_ []*core.Book)     {}
func (n *noopMonitor) AfterExclusion(_ []*core.Book)         {}
func (n *noopMonitor) AfterRanking(_ []similarity.Scored)    {}
func (n *noopMonitor) AfterSelection(_ []selection.Pick)     {}
func (n *noopMonitor) FallbackUsed(_ error)                  {}
func (n *noopMonitor) Finish(_ *core.Result)                 {}
