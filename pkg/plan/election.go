package plan

import (
	"github.com/kafka-ops/kplan/pkg/topology"
	"github.com/kafka-ops/kplan/pkg/util"
	log "github.com/sirupsen/logrus"
)

// LeaderPlanner builds the pair of documents needed to make a chosen
// broker the preferred leader of a set of partitions: a reassignment that
// moves the broker into position 0 of each replica list, and the matching
// election-trigger set.
type LeaderPlanner struct {
	brokerIDs []int
}

// ElectionResult holds the leader reassignment, the election-trigger set,
// and the partitions whose replica lists grew because the target broker
// was not already a replica.
type ElectionResult struct {
	TargetBroker int
	Assignments  []PartitionAssignment
	Election     []TopicPartition
	Expanded     []TopicPartition
}

// NewLeaderPlanner constructs a LeaderPlanner over the argument broker
// universe.
func NewLeaderPlanner(brokerIDs []int) (*LeaderPlanner, error) {
	if len(brokerIDs) == 0 {
		return nil, ErrEmptyBrokerUniverse
	}

	return &LeaderPlanner{brokerIDs: util.CopyInts(brokerIDs)}, nil
}

// BrokerIDs returns the broker universe the planner was built from.
func (l *LeaderPlanner) BrokerIDs() []int {
	return util.CopyInts(l.brokerIDs)
}

// ValidateBroker checks that the argument broker is a member of the
// universe.
func (l *LeaderPlanner) ValidateBroker(brokerID int) error {
	for _, id := range l.brokerIDs {
		if id == brokerID {
			return nil
		}
	}

	return &BrokerNotInUniverseError{
		BrokerID:  brokerID,
		BrokerIDs: l.BrokerIDs(),
	}
}

// Plan produces the leader-election documents for the argument topics and
// target broker. Topics are processed in argument order, partitions in
// topic order.
//
// Per partition the new replica list is the target broker followed by the
// remaining replicas in their original relative order. If the target was
// not already a replica it is inserted at the front and the list grows by
// one; those partitions are reported in the result's Expanded set.
func (l *LeaderPlanner) Plan(
	topics []topology.TopicInfo,
	targetBroker int,
) (*ElectionResult, error) {
	if len(topics) == 0 {
		return nil, ErrNoTopicsSelected
	}

	partitionCount := 0
	for _, topic := range topics {
		partitionCount += len(topic.Partitions)
	}
	if partitionCount == 0 {
		return nil, ErrNoPartitionsSelected
	}

	if err := l.ValidateBroker(targetBroker); err != nil {
		return nil, err
	}

	result := &ElectionResult{
		TargetBroker: targetBroker,
		Assignments:  []PartitionAssignment{},
		Election:     []TopicPartition{},
		Expanded:     []TopicPartition{},
	}

	for _, topic := range topics {
		for _, partition := range topic.Partitions {
			newReplicas := append(
				[]int{targetBroker},
				util.WithoutElement(partition.Replicas, targetBroker)...,
			)

			if !partition.HasReplica(targetBroker) {
				log.Warnf(
					"Broker %d is not currently a replica of %s-%d; replica set grows from %d to %d",
					targetBroker,
					topic.Name,
					partition.ID,
					len(partition.Replicas),
					len(newReplicas),
				)
				result.Expanded = append(
					result.Expanded,
					TopicPartition{Topic: topic.Name, Partition: partition.ID},
				)
			}

			result.Assignments = append(
				result.Assignments,
				PartitionAssignment{
					Topic:     topic.Name,
					Partition: partition.ID,
					Replicas:  newReplicas,
				},
			)
			result.Election = append(
				result.Election,
				TopicPartition{Topic: topic.Name, Partition: partition.ID},
			)
		}
	}

	return result, nil
}
