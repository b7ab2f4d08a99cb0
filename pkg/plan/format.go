package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kafka-ops/kplan/pkg/util"
)

// Marshal renders the reassignment document as indented JSON.
func (d AssignmentDoc) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalAssignmentDoc parses a rendered reassignment document.
func UnmarshalAssignmentDoc(contents []byte) (AssignmentDoc, error) {
	doc := AssignmentDoc{}
	err := json.Unmarshal(contents, &doc)
	return doc, err
}

// Marshal renders the election-trigger document as indented JSON.
func (d ElectionDoc) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalElectionDoc parses a rendered election-trigger document.
func UnmarshalElectionDoc(contents []byte) (ElectionDoc, error) {
	doc := ElectionDoc{}
	err := json.Unmarshal(contents, &doc)
	return doc, err
}

// FormatAssignments creates a pretty table showing the old and new replica
// lists for each planned partition. Replicas that changed position or were
// added are highlighted when running in a terminal.
func FormatAssignments(
	assignments []PartitionAssignment,
	oldReplicas map[TopicPartition][]int,
) string {
	buf := &bytes.Buffer{}

	headers := []any{
		"Topic",
		"Partition",
		"Old Replicas",
		"New Replicas",
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

	for _, assignment := range assignments {
		old := oldReplicas[TopicPartition{
			Topic:     assignment.Topic,
			Partition: assignment.Partition,
		}]

		table.Append([]string{
			assignment.Topic,
			fmt.Sprintf("%d", assignment.Partition),
			replicasStr(old),
			replicasDiffStr(old, assignment.Replicas),
		})
	}

	table.Render()
	return buf.String()
}

// FormatSkipped creates a pretty table from the skipped partitions of a
// reassignment result.
func FormatSkipped(skipped []SkippedPartition) string {
	buf := &bytes.Buffer{}

	headers := []any{
		"Topic",
		"Partition",
		"Replication",
		"Reason",
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

	for _, skip := range skipped {
		table.Append([]string{
			skip.Topic,
			fmt.Sprintf("%d", skip.Partition),
			fmt.Sprintf("%d", skip.ReplicationFactor),
			skip.Reason,
		})
	}

	table.Render()
	return buf.String()
}

func replicasStr(replicas []int) string {
	elements := []string{}
	for _, replica := range replicas {
		elements = append(elements, strconv.Itoa(replica))
	}
	return strings.Join(elements, ", ")
}

func replicasDiffStr(old []int, new []int) string {
	if !util.InTerminal() {
		return replicasStr(new)
	}

	added := color.New(color.FgRed).SprintfFunc()
	moved := color.New(color.FgCyan).SprintfFunc()

	oldIndex := func(replica int) int {
		for i, value := range old {
			if value == replica {
				return i
			}
		}
		return -1
	}

	elements := []string{}
	for r, replica := range new {
		var element string

		if r < len(old) && replica == old[r] {
			element = strconv.Itoa(replica)
		} else if oldIndex(replica) != -1 {
			element = moved("%d", replica)
		} else {
			element = added("%d", replica)
		}

		elements = append(elements, element)
	}

	return strings.Join(elements, ", ")
}
