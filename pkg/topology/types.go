package topology

import (
	"sort"
	"strings"

	"github.com/kafka-ops/kplan/pkg/util"
)

// InternalTopicPrefix marks topics that are managed by Kafka itself
// (e.g., __consumer_offsets). The classification is used for reporting
// only; planners treat internal and custom topics identically.
const InternalTopicPrefix = "_"

// PartitionInfo describes a single partition and its current replica
// placement. The first replica is the preferred leader.
type PartitionInfo struct {
	Topic    string `json:"topic"`
	ID       int    `json:"id"`
	Replicas []int  `json:"replicas"`
}

// TopicInfo describes a topic and its partitions. ReplicationFactor is the
// value reported by the cluster for the topic as a whole; the per-partition
// replica list length is authoritative for planning.
type TopicInfo struct {
	Name              string          `json:"name"`
	ReplicationFactor int             `json:"replicationFactor"`
	Partitions        []PartitionInfo `json:"partitions"`
}

// Snapshot is an immutable view of the cluster topology, taken at load or
// refresh time. It is replaced wholesale on refresh, never patched.
type Snapshot struct {
	topics []TopicInfo
}

// NewSnapshot constructs a Snapshot from the argument topics. Topics are
// sorted by name and partitions by ID so that iteration order is
// deterministic.
func NewSnapshot(topics []TopicInfo) Snapshot {
	sorted := make([]TopicInfo, len(topics))
	copy(sorted, topics)

	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Name < sorted[b].Name
	})

	for t := range sorted {
		partitions := make([]PartitionInfo, len(sorted[t].Partitions))
		copy(partitions, sorted[t].Partitions)
		sort.Slice(partitions, func(a, b int) bool {
			return partitions[a].ID < partitions[b].ID
		})
		sorted[t].Partitions = partitions
	}

	return Snapshot{topics: sorted}
}

// Topics returns all topics in the snapshot, sorted by name.
func (s Snapshot) Topics() []TopicInfo {
	return s.topics
}

// Get returns the topic with the argument name, if present.
func (s Snapshot) Get(name string) (TopicInfo, bool) {
	for _, topic := range s.topics {
		if topic.Name == name {
			return topic, true
		}
	}

	return TopicInfo{}, false
}

// TopicNames returns the names of all topics in the snapshot, sorted.
func (s Snapshot) TopicNames() []string {
	names := []string{}

	for _, topic := range s.topics {
		names = append(names, topic.Name)
	}

	return names
}

// NumTopics returns the number of topics in the snapshot.
func (s Snapshot) NumTopics() int {
	return len(s.topics)
}

// TotalPartitions returns the number of partitions across all topics.
func (s Snapshot) TotalPartitions() int {
	total := 0

	for _, topic := range s.topics {
		total += len(topic.Partitions)
	}

	return total
}

// InternalTopics returns the topics whose names begin with the reserved
// internal prefix.
func (s Snapshot) InternalTopics() []TopicInfo {
	internal := []TopicInfo{}

	for _, topic := range s.topics {
		if topic.IsInternal() {
			internal = append(internal, topic)
		}
	}

	return internal
}

// CustomTopics returns all topics that are not internal.
func (s Snapshot) CustomTopics() []TopicInfo {
	custom := []TopicInfo{}

	for _, topic := range s.topics {
		if !topic.IsInternal() {
			custom = append(custom, topic)
		}
	}

	return custom
}

// BrokerIDs returns the sorted set of all broker IDs that appear in any
// partition's replica list. This is the candidate pool ("broker universe")
// for both planners; an empty result means the snapshot has no usable
// placement information.
func (s Snapshot) BrokerIDs() []int {
	brokersMap := map[int]struct{}{}

	for _, topic := range s.topics {
		for _, partition := range topic.Partitions {
			for _, replica := range partition.Replicas {
				brokersMap[replica] = struct{}{}
			}
		}
	}

	brokerIDs := []int{}
	for brokerID := range brokersMap {
		brokerIDs = append(brokerIDs, brokerID)
	}
	sort.Ints(brokerIDs)

	return brokerIDs
}

// IsInternal returns whether the topic name begins with the reserved
// internal prefix.
func (t TopicInfo) IsInternal() bool {
	return strings.HasPrefix(t.Name, InternalTopicPrefix)
}

// PartitionIDs returns an ordered slice of partition IDs for a topic.
func (t TopicInfo) PartitionIDs() []int {
	ids := []int{}

	for _, partition := range t.Partitions {
		ids = append(ids, partition.ID)
	}

	return ids
}

// MaxReplication returns the maximum number of replicas across all
// partitions in a topic.
func (t TopicInfo) MaxReplication() int {
	maxReplication := 0

	for _, partition := range t.Partitions {
		if len(partition.Replicas) > maxReplication {
			maxReplication = len(partition.Replicas)
		}
	}

	return maxReplication
}

// PreferredLeader returns the first replica for the partition, or -1 if
// the replica list is empty.
func (p PartitionInfo) PreferredLeader() int {
	if len(p.Replicas) == 0 {
		return -1
	}

	return p.Replicas[0]
}

// HasReplica returns whether the argument broker appears in the
// partition's replica list.
func (p PartitionInfo) HasReplica(brokerID int) bool {
	for _, replica := range p.Replicas {
		if replica == brokerID {
			return true
		}
	}

	return false
}

// CopyReplicas returns a copy of the partition's replica list.
func (p PartitionInfo) CopyReplicas() []int {
	return util.CopyInts(p.Replicas)
}
