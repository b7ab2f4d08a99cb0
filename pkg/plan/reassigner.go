package plan

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kafka-ops/kplan/pkg/topology"
	"github.com/kafka-ops/kplan/pkg/util"
	log "github.com/sirupsen/logrus"
)

// defaultMaxDraws bounds the redraw loop that avoids no-op assignments.
// With a universe strictly larger than the replication factor, each draw
// has at most a 1/(universe choose rf) chance of matching the current set,
// so hitting this bound is effectively impossible; the deterministic
// fallback below guarantees termination regardless.
const defaultMaxDraws = 100

// Reassigner generates randomized replica placements for every partition
// in a topology snapshot. Placements preserve each partition's replication
// factor and draw only from the broker universe observed in the snapshot.
type Reassigner struct {
	brokerIDs []int
	rng       *rand.Rand
	maxDraws  int
}

// ReassignmentResult holds the generated assignments plus the partitions
// that had to be skipped because their replication factor exceeds the
// broker universe.
type ReassignmentResult struct {
	Assignments []PartitionAssignment
	Skipped     []SkippedPartition
}

// ReassignerOpt adjusts Reassigner behavior.
type ReassignerOpt func(*Reassigner)

// WithRand overrides the random source, for deterministic tests.
func WithRand(rng *rand.Rand) ReassignerOpt {
	return func(r *Reassigner) {
		r.rng = rng
	}
}

// WithMaxDraws overrides the redraw bound.
func WithMaxDraws(maxDraws int) ReassignerOpt {
	return func(r *Reassigner) {
		if maxDraws > 0 {
			r.maxDraws = maxDraws
		}
	}
}

// NewReassigner constructs a Reassigner over the argument broker universe.
func NewReassigner(brokerIDs []int, opts ...ReassignerOpt) (*Reassigner, error) {
	if len(brokerIDs) == 0 {
		return nil, ErrEmptyBrokerUniverse
	}

	reassigner := &Reassigner{
		brokerIDs: util.CopyInts(brokerIDs),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		maxDraws:  defaultMaxDraws,
	}

	for _, opt := range opts {
		opt(reassigner)
	}

	return reassigner, nil
}

// Plan produces a reassignment for every partition in the snapshot, in
// topic then partition order. The snapshot is never modified.
func (r *Reassigner) Plan(snapshot topology.Snapshot) *ReassignmentResult {
	result := &ReassignmentResult{
		Assignments: []PartitionAssignment{},
		Skipped:     []SkippedPartition{},
	}

	for _, topic := range snapshot.Topics() {
		for _, partition := range topic.Partitions {
			rf := len(partition.Replicas)

			if rf == 0 {
				log.Warnf(
					"Skipping %s-%d: partition has no replicas",
					topic.Name,
					partition.ID,
				)
				result.Skipped = append(
					result.Skipped,
					SkippedPartition{
						Topic:             topic.Name,
						Partition:         partition.ID,
						ReplicationFactor: 0,
						Reason:            "partition has no replicas",
					},
				)
				continue
			}

			if rf > len(r.brokerIDs) {
				log.Warnf(
					"Skipping %s-%d: replication factor (%d) exceeds available brokers (%d)",
					topic.Name,
					partition.ID,
					rf,
					len(r.brokerIDs),
				)
				result.Skipped = append(
					result.Skipped,
					SkippedPartition{
						Topic:             topic.Name,
						Partition:         partition.ID,
						ReplicationFactor: rf,
						Reason: fmt.Sprintf(
							"replication factor %d exceeds broker universe size %d",
							rf,
							len(r.brokerIDs),
						),
					},
				)
				continue
			}

			result.Assignments = append(
				result.Assignments,
				PartitionAssignment{
					Topic:     topic.Name,
					Partition: partition.ID,
					Replicas:  r.drawReplicas(partition.Replicas),
				},
			)
		}
	}

	return result
}

// drawReplicas picks a new replica list of the same length as curr. When
// the universe is strictly larger than the replication factor, the result
// is guaranteed to differ from curr as a set: random redraws up to the
// bound, then a deterministic substitution.
func (r *Reassigner) drawReplicas(curr []int) []int {
	rf := len(curr)

	candidate := r.sample(rf)
	if len(r.brokerIDs) == rf {
		// Only one possible set; accept it even if unchanged.
		return candidate
	}

	for draw := 1; draw < r.maxDraws; draw++ {
		if !util.SameElements(candidate, curr) {
			return candidate
		}
		candidate = r.sample(rf)
	}

	if util.SameElements(candidate, curr) {
		candidate = r.substitute(candidate)
	}

	return candidate
}

// sample draws a uniformly random subset of size rf from the universe,
// in draw order.
func (r *Reassigner) sample(rf int) []int {
	sampled := make([]int, rf)
	for i, idx := range r.rng.Perm(len(r.brokerIDs))[:rf] {
		sampled[i] = r.brokerIDs[idx]
	}
	return sampled
}

// substitute swaps the candidate's last replica for the lowest universe
// broker not already present, which must exist when the universe is larger
// than the replication factor.
func (r *Reassigner) substitute(candidate []int) []int {
	members := map[int]struct{}{}
	for _, replica := range candidate {
		members[replica] = struct{}{}
	}

	result := util.CopyInts(candidate)
	for _, brokerID := range r.brokerIDs {
		if _, ok := members[brokerID]; !ok {
			result[len(result)-1] = brokerID
			break
		}
	}

	return result
}
