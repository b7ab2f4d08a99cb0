package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-ops/kplan/pkg/topology"
)

const describeOutput = `Topic: orders	TopicId: A1	PartitionCount: 2	ReplicationFactor: 3	Configs: segment.bytes=1073741824
	Topic: orders	Partition: 0	Leader: 1	Replicas: 1,2,3	Isr: 1,2,3
	Topic: orders	Partition: 1	Leader: 2	Replicas: 2,3,4	Isr: 2,3,4
Topic: __consumer_offsets	TopicId: B2	PartitionCount: 1	ReplicationFactor: 3	Configs: compact
	Topic: __consumer_offsets	Partition: 0	Leader: 5	Replicas: 5,1,2	Isr: 5,1,2
this line is noise and should be skipped
	Topic: orphaned	Partition: 0	Leader: 9	Replicas: 9,8	Isr: 9,8
Topic: clicks	TopicId: C3	PartitionCount: 1	ReplicationFactor: 2	Configs:
	Topic: clicks	Partition: 0	Leader: 4	Replicas: 4,5	Isr: 4,5
`

func TestParseDescribe(t *testing.T) {
	snapshot := ParseDescribe(describeOutput, nil)

	assert.Equal(
		t,
		[]string{"__consumer_offsets", "clicks", "orders"},
		snapshot.TopicNames(),
	)

	orders, ok := snapshot.Get("orders")
	require.True(t, ok)
	assert.Equal(t, 3, orders.ReplicationFactor)
	require.Len(t, orders.Partitions, 2)
	assert.Equal(t, []int{1, 2, 3}, orders.Partitions[0].Replicas)
	assert.Equal(t, []int{2, 3, 4}, orders.Partitions[1].Replicas)

	// The partition line for a topic with no summary line is dropped.
	_, ok = snapshot.Get("orphaned")
	assert.False(t, ok)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, snapshot.BrokerIDs())
}

func TestParseDescribeWithFilter(t *testing.T) {
	filter, err := topology.NewFilter("orders")
	require.NoError(t, err)

	snapshot := ParseDescribe(describeOutput, filter)
	assert.Equal(t, []string{"orders"}, snapshot.TopicNames())
	assert.Equal(t, 2, snapshot.TotalPartitions())
}

func TestParseDescribeEmpty(t *testing.T) {
	snapshot := ParseDescribe("", nil)
	assert.Equal(t, 0, snapshot.NumTopics())
	assert.Empty(t, snapshot.BrokerIDs())
}

func TestParseDescribeMalformedLines(t *testing.T) {
	output := "Topic: bad	ReplicationFactor: x\n" +
		"Topic: ok	PartitionCount: 1	ReplicationFactor: 1	Configs:\n" +
		"	Topic: ok	Partition: 0	Leader: 1	Replicas: 1	Isr: 1\n" +
		"	Topic: ok	Partition: zero	Replicas: 1,2\n"

	snapshot := ParseDescribe(output, nil)
	assert.Equal(t, []string{"ok"}, snapshot.TopicNames())

	ok, found := snapshot.Get("ok")
	require.True(t, found)
	require.Len(t, ok.Partitions, 1)
	assert.Equal(t, []int{1}, ok.Partitions[0].Replicas)
}

func TestParseReplicaList(t *testing.T) {
	replicas, err := parseReplicaList("3,1,2")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, replicas)

	_, err = parseReplicaList("")
	assert.Error(t, err)
}
