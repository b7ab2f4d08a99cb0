package admin

import (
	"context"

	"github.com/kafka-ops/kplan/pkg/topology"
)

// Loader fetches a topology snapshot from a cluster. Implementations are
// the only components in the tool that talk to the outside world; the
// planners operate purely on the returned snapshot.
type Loader interface {
	Fetch(ctx context.Context, filter *topology.Filter) (topology.Snapshot, error)
}
