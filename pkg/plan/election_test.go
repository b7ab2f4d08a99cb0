package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-ops/kplan/pkg/topology"
)

func electionTopics() []topology.TopicInfo {
	return []topology.TopicInfo{
		{
			Name:              "orders",
			ReplicationFactor: 3,
			Partitions: []topology.PartitionInfo{
				{Topic: "orders", ID: 0, Replicas: []int{1, 2, 3}},
			},
		},
	}
}

func TestNewLeaderPlannerEmptyUniverse(t *testing.T) {
	_, err := NewLeaderPlanner(nil)
	assert.Equal(t, ErrEmptyBrokerUniverse, err)
}

func TestLeaderPlanExistingReplica(t *testing.T) {
	planner, err := NewLeaderPlanner([]int{1, 2, 3, 4})
	require.NoError(t, err)

	result, err := planner.Plan(electionTopics(), 2)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.Equal(
		t,
		PartitionAssignment{Topic: "orders", Partition: 0, Replicas: []int{2, 1, 3}},
		result.Assignments[0],
	)
	assert.Equal(
		t,
		[]TopicPartition{{Topic: "orders", Partition: 0}},
		result.Election,
	)
	assert.Empty(t, result.Expanded)
}

func TestLeaderPlanNonMemberGrowsReplicaSet(t *testing.T) {
	planner, err := NewLeaderPlanner([]int{1, 2, 3, 4})
	require.NoError(t, err)

	result, err := planner.Plan(electionTopics(), 4)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.Equal(t, []int{4, 1, 2, 3}, result.Assignments[0].Replicas)
	assert.Equal(
		t,
		[]TopicPartition{{Topic: "orders", Partition: 0}},
		result.Expanded,
	)
}

func TestLeaderPlanPreservesRelativeOrder(t *testing.T) {
	topics := []topology.TopicInfo{
		{
			Name:              "orders",
			ReplicationFactor: 4,
			Partitions: []topology.PartitionInfo{
				{Topic: "orders", ID: 0, Replicas: []int{5, 3, 2, 7}},
				{Topic: "orders", ID: 1, Replicas: []int{2, 7, 5, 3}},
			},
		},
	}

	planner, err := NewLeaderPlanner([]int{2, 3, 5, 7})
	require.NoError(t, err)

	result, err := planner.Plan(topics, 2)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 2)
	assert.Equal(t, []int{2, 5, 3, 7}, result.Assignments[0].Replicas)
	assert.Equal(t, []int{2, 7, 5, 3}, result.Assignments[1].Replicas)
	assert.Empty(t, result.Expanded)
}

func TestLeaderPlanValidation(t *testing.T) {
	planner, err := NewLeaderPlanner([]int{1, 2, 3})
	require.NoError(t, err)

	_, err = planner.Plan(electionTopics(), 9)
	var notInUniverse *BrokerNotInUniverseError
	require.ErrorAs(t, err, &notInUniverse)
	assert.Equal(t, 9, notInUniverse.BrokerID)
	assert.Equal(t, []int{1, 2, 3}, notInUniverse.BrokerIDs)

	_, err = planner.Plan(nil, 2)
	assert.Equal(t, ErrNoTopicsSelected, err)

	_, err = planner.Plan(
		[]topology.TopicInfo{{Name: "empty", ReplicationFactor: 1}},
		2,
	)
	assert.Equal(t, ErrNoPartitionsSelected, err)
}

func TestLeaderPlanValidationOrder(t *testing.T) {
	planner, err := NewLeaderPlanner([]int{1, 2, 3})
	require.NoError(t, err)

	// An empty selection is reported before an out-of-universe broker.
	_, err = planner.Plan(nil, 9)
	assert.Equal(t, ErrNoTopicsSelected, err)

	_, err = planner.Plan(
		[]topology.TopicInfo{{Name: "empty", ReplicationFactor: 1}},
		9,
	)
	assert.Equal(t, ErrNoPartitionsSelected, err)
}
