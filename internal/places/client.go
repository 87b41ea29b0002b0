// Package places implements the place search collaborator: resolving a
// location string into categorized place records the planner consumes. The
// planner never calls this package directly; it receives the resolved
// category -> places mapping.
package places

import (
	"context"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

// DefaultCategoryQueries are the category searches fanned out for every
// location when the caller does not narrow them down.
var DefaultCategoryQueries = []string{
	"restaurants near me",
	"cafes and bakeries near me",
	"parks near me",
	"delis near me",
	"thrift stores near me",
	"tourist attractions near me",
	"museums near me",
	"galleries near me",
	"markets near me",
}

// SearchClient resolves a location into categorized place records.
type SearchClient interface {
	SearchAllCategories(ctx context.Context, location string, radiusMiles float64) (*types.SearchResults, error)
}
