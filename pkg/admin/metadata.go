package admin

import (
	"context"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/kafka-ops/kplan/pkg/topology"
)

// MetadataLoader loads a topology snapshot directly from a broker via the
// Kafka metadata API, as an alternative to shelling out to kafka-topics.
type MetadataLoader struct {
	connector *Connector
}

var _ Loader = (*MetadataLoader)(nil)

// NewMetadataLoader constructs a MetadataLoader from the argument
// connector config.
func NewMetadataLoader(config ConnectorConfig) (*MetadataLoader, error) {
	connector, err := NewConnector(config)
	if err != nil {
		return nil, err
	}

	return &MetadataLoader{connector: connector}, nil
}

// Fetch requests cluster metadata and converts it into a snapshot
// containing only topics matched by the filter.
func (m *MetadataLoader) Fetch(
	ctx context.Context,
	filter *topology.Filter,
) (topology.Snapshot, error) {
	if filter == nil {
		filter = topology.MatchAll()
	}

	log.Infof(
		"Fetching cluster metadata from %s",
		m.connector.Config.BrokerAddr,
	)

	resp, err := m.connector.KafkaClient.Metadata(ctx, &kafka.MetadataRequest{})
	if err != nil {
		return topology.Snapshot{}, err
	}

	topicInfos := []topology.TopicInfo{}

	for _, topic := range resp.Topics {
		if topic.Error != nil {
			log.Debugf("Skipping topic %s: %v", topic.Name, topic.Error)
			continue
		}
		if !filter.Matches(topic.Name) {
			continue
		}

		partitions := []topology.PartitionInfo{}
		maxReplication := 0

		for _, partition := range topic.Partitions {
			replicas := []int{}
			for _, replica := range partition.Replicas {
				replicas = append(replicas, replica.ID)
			}
			if len(replicas) == 0 {
				continue
			}
			if len(replicas) > maxReplication {
				maxReplication = len(replicas)
			}

			partitions = append(
				partitions,
				topology.PartitionInfo{
					Topic:    topic.Name,
					ID:       partition.ID,
					Replicas: replicas,
				},
			)
		}

		topicInfos = append(
			topicInfos,
			topology.TopicInfo{
				Name:              topic.Name,
				ReplicationFactor: maxReplication,
				Partitions:        partitions,
			},
		)
	}

	return topology.NewSnapshot(topicInfos), nil
}
