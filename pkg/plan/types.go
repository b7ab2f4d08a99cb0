package plan

import (
	"errors"
	"fmt"

	"github.com/kafka-ops/kplan/pkg/topology"
	"github.com/kafka-ops/kplan/pkg/util"
)

// DocVersion is the fixed version number for reassignment documents,
// as expected by kafka-reassign-partitions.
const DocVersion = 1

// Default file names for generated plan documents. These are part of the
// contract with the downstream execution tooling.
const (
	ReassignmentFileName       = "reassign-partitions-plan.json"
	LeaderReassignmentFileName = "reassign-partitions-for-leader-plan.json"
	ElectionFileName           = "leader-election-plan.json"
)

var (
	// ErrEmptyBrokerUniverse is returned when a planner is constructed
	// from a snapshot that yields no broker IDs.
	ErrEmptyBrokerUniverse = errors.New(
		"broker universe is empty; cannot plan without at least one observed broker",
	)

	// ErrNoTopicsSelected is returned when a topic selection matches
	// zero topics.
	ErrNoTopicsSelected = errors.New("no loaded topics matched the selection")

	// ErrNoPartitionsSelected is returned when the selected topics
	// contain zero partitions.
	ErrNoPartitionsSelected = errors.New("selected topics contain no partitions")
)

// BrokerNotInUniverseError is returned when a target broker is not a
// member of the broker universe. It carries the universe so callers can
// show the valid choices.
type BrokerNotInUniverseError struct {
	BrokerID  int
	BrokerIDs []int
}

func (e *BrokerNotInUniverseError) Error() string {
	return fmt.Sprintf(
		"broker %d is not in the set of available brokers %v",
		e.BrokerID,
		e.BrokerIDs,
	)
}

// PartitionAssignment is one entry of a reassignment document: the desired
// replica list for a single partition. The first replica is the preferred
// leader.
type PartitionAssignment struct {
	Topic     string `json:"topic"`
	Partition int    `json:"partition"`
	Replicas  []int  `json:"replicas"`
}

// TopicPartition identifies a partition in an election document.
type TopicPartition struct {
	Topic     string `json:"topic"`
	Partition int    `json:"partition"`
}

// AssignmentDoc is the reassignment plan document consumed by
// kafka-reassign-partitions.
type AssignmentDoc struct {
	Version    int                   `json:"version"`
	Partitions []PartitionAssignment `json:"partitions"`
}

// ElectionDoc is the election-trigger document consumed by
// kafka-leader-election. Unlike AssignmentDoc it has no version field.
type ElectionDoc struct {
	Partitions []TopicPartition `json:"partitions"`
}

// SkippedPartition records a partition that could not be included in a
// reassignment plan, along with the reason. Skips are data, not errors;
// the rest of the plan proceeds.
type SkippedPartition struct {
	Topic             string `json:"topic"`
	Partition         int    `json:"partition"`
	ReplicationFactor int    `json:"replicationFactor"`
	Reason            string `json:"reason"`
}

// NewAssignmentDoc wraps the argument assignments into a versioned
// document.
func NewAssignmentDoc(assignments []PartitionAssignment) AssignmentDoc {
	return AssignmentDoc{
		Version:    DocVersion,
		Partitions: assignments,
	}
}

// CheckAssignments runs basic sanity checks over generated assignments:
// replicas must be non-empty, pairwise distinct, and drawn from the
// argument broker universe.
func CheckAssignments(assignments []PartitionAssignment, brokerIDs []int) error {
	universe := map[int]struct{}{}
	for _, brokerID := range brokerIDs {
		universe[brokerID] = struct{}{}
	}

	for _, assignment := range assignments {
		if len(assignment.Replicas) == 0 {
			return fmt.Errorf(
				"partition %s-%d has an empty replica list",
				assignment.Topic,
				assignment.Partition,
			)
		}

		seen := map[int]struct{}{}
		for _, replica := range assignment.Replicas {
			if _, ok := universe[replica]; !ok {
				return fmt.Errorf(
					"partition %s-%d references broker %d outside the broker universe",
					assignment.Topic,
					assignment.Partition,
					replica,
				)
			}
			if _, ok := seen[replica]; ok {
				return fmt.Errorf(
					"partition %s-%d repeats broker %d",
					assignment.Topic,
					assignment.Partition,
					replica,
				)
			}
			seen[replica] = struct{}{}
		}
	}

	return nil
}

// CurrentReplicas maps each partition of the argument topics to its
// current replica list, for diffing against a generated plan.
func CurrentReplicas(topics []topology.TopicInfo) map[TopicPartition][]int {
	current := map[TopicPartition][]int{}
	for _, topic := range topics {
		for _, partition := range topic.Partitions {
			key := TopicPartition{Topic: topic.Name, Partition: partition.ID}
			current[key] = partition.CopyReplicas()
		}
	}
	return current
}

// Copy returns a deep copy of this PartitionAssignment.
func (a PartitionAssignment) Copy() PartitionAssignment {
	return PartitionAssignment{
		Topic:     a.Topic,
		Partition: a.Partition,
		Replicas:  util.CopyInts(a.Replicas),
	}
}
