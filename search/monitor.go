package search

import "github.com/clearchart/notevault/core"

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query string)
	AfterKeywordSearch(ids []core.ID)
	AfterSemanticSearch(matches []core.VectorMatch)
	SemanticLegSkipped(err error)
	Finish(ids []core.ID)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterKeywordSearch(_ []core.ID)          {}
func (n *noopMonitor) AfterSemanticSearch(_ []core.VectorMatch) {}
func (n *noopMonitor) SemanticLegSkipped(_ error)              {}
func (n *noopMonitor) Finish(_ []core.ID)                      {}
