package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-ops/kplan/pkg/topology"
)

func TestCheckAssignments(t *testing.T) {
	brokerIDs := []int{1, 2, 3, 4}

	type testCase struct {
		description string
		assignments []PartitionAssignment
		expectErr   string
	}

	testCases := []testCase{
		{
			description: "valid",
			assignments: []PartitionAssignment{
				{Topic: "orders", Partition: 0, Replicas: []int{1, 2, 3}},
				{Topic: "orders", Partition: 1, Replicas: []int{4, 3}},
			},
		},
		{
			description: "empty replicas",
			assignments: []PartitionAssignment{
				{Topic: "orders", Partition: 0, Replicas: []int{}},
			},
			expectErr: "empty replica list",
		},
		{
			description: "outside universe",
			assignments: []PartitionAssignment{
				{Topic: "orders", Partition: 0, Replicas: []int{1, 9}},
			},
			expectErr: "outside the broker universe",
		},
		{
			description: "repeated broker",
			assignments: []PartitionAssignment{
				{Topic: "orders", Partition: 0, Replicas: []int{2, 2, 3}},
			},
			expectErr: "repeats broker",
		},
	}

	for _, testCase := range testCases {
		err := CheckAssignments(testCase.assignments, brokerIDs)
		if testCase.expectErr == "" {
			assert.NoError(t, err, testCase.description)
		} else {
			require.Error(t, err, testCase.description)
			assert.Contains(t, err.Error(), testCase.expectErr, testCase.description)
		}
	}
}

func TestCurrentReplicas(t *testing.T) {
	topics := []topology.TopicInfo{
		{
			Name: "orders",
			Partitions: []topology.PartitionInfo{
				{Topic: "orders", ID: 0, Replicas: []int{1, 2}},
				{Topic: "orders", ID: 1, Replicas: []int{3, 1}},
			},
		},
		{
			Name: "payments",
			Partitions: []topology.PartitionInfo{
				{Topic: "payments", ID: 0, Replicas: []int{2, 3}},
			},
		},
	}

	current := CurrentReplicas(topics)
	assert.Equal(
		t,
		map[TopicPartition][]int{
			{Topic: "orders", Partition: 0}:   {1, 2},
			{Topic: "orders", Partition: 1}:   {3, 1},
			{Topic: "payments", Partition: 0}: {2, 3},
		},
		current,
	)

	// The map holds copies, not aliases into the topic data.
	current[TopicPartition{Topic: "orders", Partition: 0}][0] = 99
	assert.Equal(t, []int{1, 2}, topics[0].Partitions[0].Replicas)
}

func TestPartitionAssignmentCopy(t *testing.T) {
	original := PartitionAssignment{Topic: "orders", Partition: 0, Replicas: []int{1, 2}}
	copied := original.Copy()

	copied.Replicas[0] = 99
	assert.Equal(t, []int{1, 2}, original.Replicas)
}

func TestBrokerNotInUniverseError(t *testing.T) {
	err := &BrokerNotInUniverseError{BrokerID: 7, BrokerIDs: []int{1, 2, 3}}
	assert.Contains(t, err.Error(), "broker 7")
	assert.Contains(t, err.Error(), "[1 2 3]")
}
