package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() Snapshot {
	return NewSnapshot(
		[]TopicInfo{
			{
				Name:              "orders",
				ReplicationFactor: 3,
				Partitions: []PartitionInfo{
					{Topic: "orders", ID: 1, Replicas: []int{2, 3, 4}},
					{Topic: "orders", ID: 0, Replicas: []int{1, 2, 3}},
				},
			},
			{
				Name:              "__consumer_offsets",
				ReplicationFactor: 3,
				Partitions: []PartitionInfo{
					{Topic: "__consumer_offsets", ID: 0, Replicas: []int{5, 1, 2}},
				},
			},
			{
				Name:              "clicks",
				ReplicationFactor: 2,
				Partitions: []PartitionInfo{
					{Topic: "clicks", ID: 0, Replicas: []int{4, 5}},
				},
			},
		},
	)
}

func TestSnapshotOrdering(t *testing.T) {
	snapshot := testSnapshot()

	assert.Equal(
		t,
		[]string{"__consumer_offsets", "clicks", "orders"},
		snapshot.TopicNames(),
	)

	orders, ok := snapshot.Get("orders")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, orders.PartitionIDs())

	_, ok = snapshot.Get("missing")
	assert.False(t, ok)
}

func TestSnapshotCounts(t *testing.T) {
	snapshot := testSnapshot()

	assert.Equal(t, 3, snapshot.NumTopics())
	assert.Equal(t, 4, snapshot.TotalPartitions())
}

func TestSnapshotClassification(t *testing.T) {
	snapshot := testSnapshot()

	internal := snapshot.InternalTopics()
	require.Len(t, internal, 1)
	assert.Equal(t, "__consumer_offsets", internal[0].Name)

	custom := snapshot.CustomTopics()
	require.Len(t, custom, 2)
	assert.Equal(t, "clicks", custom[0].Name)
	assert.Equal(t, "orders", custom[1].Name)
}

func TestSnapshotBrokerIDs(t *testing.T) {
	snapshot := testSnapshot()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, snapshot.BrokerIDs())

	empty := NewSnapshot(nil)
	assert.Equal(t, []int{}, empty.BrokerIDs())
}

func TestTopicInfoHelpers(t *testing.T) {
	snapshot := testSnapshot()

	orders, ok := snapshot.Get("orders")
	require.True(t, ok)
	assert.False(t, orders.IsInternal())
	assert.Equal(t, 3, orders.MaxReplication())

	offsets, ok := snapshot.Get("__consumer_offsets")
	require.True(t, ok)
	assert.True(t, offsets.IsInternal())
}

func TestPartitionInfoHelpers(t *testing.T) {
	partition := PartitionInfo{Topic: "orders", ID: 0, Replicas: []int{3, 1, 2}}

	assert.Equal(t, 3, partition.PreferredLeader())
	assert.True(t, partition.HasReplica(1))
	assert.False(t, partition.HasReplica(9))

	replicas := partition.CopyReplicas()
	replicas[0] = 99
	assert.Equal(t, []int{3, 1, 2}, partition.Replicas)

	empty := PartitionInfo{}
	assert.Equal(t, -1, empty.PreferredLeader())
}
