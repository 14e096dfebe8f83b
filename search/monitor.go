package search

import (
	"github.com/poiesic/keyhint/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results
// during search. Methods are invoked sequentially from the searching
// goroutine.
type SearchMonitor interface {
	Start(query core.Query)
	CacheHit(key string)
	CandidatesLoaded(count int)
	PassCompleted(pass string, hits int)
	Merged(results []*core.MatchResult)
	Finish(results []*core.MatchResult, fromCache bool)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Query)                   {}
func (n *noopMonitor) CacheHit(_ string)                    {}
func (n *noopMonitor) CandidatesLoaded(_ int)               {}
func (n *noopMonitor) PassCompleted(_ string, _ int)        {}
func (n *noopMonitor) Merged(_ []*core.MatchResult)         {}
func (n *noopMonitor) Finish(_ []*core.MatchResult, _ bool) {}
