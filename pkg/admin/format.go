package admin

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kafka-ops/kplan/pkg/topology"
)

// FormatTopics creates a pretty table summarizing the topics in a
// snapshot.
func FormatTopics(topics []topology.TopicInfo) string {
	buf := &bytes.Buffer{}

	headers := []any{
		"Name",
		"Partitions",
		"Replication",
		"Internal",
	}

	configBuilder := tablewriter.NewConfigBuilder().WithRowAutoWrap(tw.WrapNone)
	for i := range headers {
		configBuilder = configBuilder.ForColumn(i).WithAlignment(tw.AlignLeft).Build()
	}

	table := tablewriter.NewTable(buf,
		tablewriter.WithConfig(configBuilder.Build()),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Top:    tw.On,
				Right:  tw.Off,
				Bottom: tw.On,
			},
		}),
	)

	table.Header(headers...)

	for _, topic := range topics {
		table.Append([]string{
			topic.Name,
			fmt.Sprintf("%d", len(topic.Partitions)),
			fmt.Sprintf("%d", topic.ReplicationFactor),
			fmt.Sprintf("%v", topic.IsInternal()),
		})
	}

	table.Render()
	return buf.String()
}

// FormatPartitions creates a pretty table of a topic's partitions and
// their replica placement.
func FormatPartitions(partitions []topology.PartitionInfo) string {
	buf := &bytes.Buffer{}

	headers := []any{
		"Topic",
		"Partition",
		"Leader",
		"Replicas",
	}

	configBuilder := tablewriter.NewConfigBuilder().WithRowAutoWrap(tw.WrapNone)
	for i := range headers {
		configBuilder = configBuilder.ForColumn(i).WithAlignment(tw.AlignLeft).Build()
	}

	table := tablewriter.NewTable(buf,
		tablewriter.WithConfig(configBuilder.Build()),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Top:    tw.On,
				Right:  tw.Off,
				Bottom: tw.On,
			},
		}),
	)

	table.Header(headers...)

	for _, partition := range partitions {
		replicaStrs := []string{}
		for _, replica := range partition.Replicas {
			replicaStrs = append(replicaStrs, strconv.Itoa(replica))
		}

		table.Append([]string{
			partition.Topic,
			fmt.Sprintf("%d", partition.ID),
			fmt.Sprintf("%d", partition.PreferredLeader()),
			strings.Join(replicaStrs, ", "),
		})
	}

	table.Render()
	return buf.String()
}

// FormatBrokerIDs renders the broker universe as a compact string.
func FormatBrokerIDs(brokerIDs []int) string {
	elements := []string{}
	for _, brokerID := range brokerIDs {
		elements = append(elements, strconv.Itoa(brokerID))
	}
	return fmt.Sprintf("[%s]", strings.Join(elements, ", "))
}
