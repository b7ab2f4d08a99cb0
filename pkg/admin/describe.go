package admin

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kafka-ops/kplan/pkg/topology"
)

// DefaultDescribeTimeout bounds a single kafka-topics invocation.
const DefaultDescribeTimeout = 120 * time.Second

// DefaultKafkaTopicsPath is the command used to describe topics when no
// explicit path is configured; it is resolved via PATH.
const DefaultKafkaTopicsPath = "kafka-topics"

var (
	topicLineRegexp = regexp.MustCompile(
		`^\s*Topic:\s*(\S+).*ReplicationFactor:\s*(\d+)`,
	)
	partitionLineRegexp = regexp.MustCompile(
		`^\s*Topic:\s*(\S+).*Partition:\s*(\d+).*Replicas:\s*([0-9,]+)`,
	)
)

// DescribeConfig configures a DescribeRunner.
type DescribeConfig struct {
	// BootstrapAddr is the host:port passed as --bootstrap-server.
	BootstrapAddr string

	// CommandConfigPath, if set, is passed as --command-config so the
	// Kafka CLI handles SASL/SSL client properties itself.
	CommandConfigPath string

	// ToolPath overrides the kafka-topics command path.
	ToolPath string

	// Timeout bounds the subprocess run; zero means the default.
	Timeout time.Duration
}

// DescribeRunner loads a topology snapshot by running
// `kafka-topics --describe` and parsing its text output.
type DescribeRunner struct {
	config DescribeConfig
}

var _ Loader = (*DescribeRunner)(nil)

// NewDescribeRunner constructs a DescribeRunner from the argument config.
func NewDescribeRunner(config DescribeConfig) *DescribeRunner {
	if config.ToolPath == "" {
		config.ToolPath = DefaultKafkaTopicsPath
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultDescribeTimeout
	}

	return &DescribeRunner{config: config}
}

// Fetch runs the describe subprocess and parses its output into a
// snapshot containing only topics matched by the filter. The run is
// all-or-nothing: on any failure or timeout an error is returned and no
// partial snapshot is produced.
func (d *DescribeRunner) Fetch(
	ctx context.Context,
	filter *topology.Filter,
) (topology.Snapshot, error) {
	args := []string{
		"--describe",
		"--bootstrap-server", d.config.BootstrapAddr,
	}
	if d.config.CommandConfigPath != "" {
		args = append(args, "--command-config", d.config.CommandConfigPath)
	}

	runCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	log.Infof("Fetching topic metadata from %s", d.config.BootstrapAddr)
	log.Debugf("Running %s %s", d.config.ToolPath, strings.Join(args, " "))

	cmd := exec.CommandContext(runCtx, d.config.ToolPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return topology.Snapshot{}, fmt.Errorf(
				"%s timed out after %s",
				d.config.ToolPath,
				d.config.Timeout,
			)
		}
		return topology.Snapshot{}, fmt.Errorf(
			"failed to run %s: %v (stderr: %s)",
			d.config.ToolPath,
			err,
			strings.TrimSpace(stderr.String()),
		)
	}

	log.Debugf("Raw describe output:\n%s", stdout.String())

	return ParseDescribe(stdout.String(), filter), nil
}

// ParseDescribe converts kafka-topics describe output into a snapshot.
// Two line shapes are recognized: a topic summary line (name plus
// replication factor) and a partition line (name, partition number, and a
// comma-separated replica list whose first entry is the preferred leader).
// Lines that match neither shape are skipped silently; partition lines for
// topics whose summary line was filtered out are dropped with them.
func ParseDescribe(output string, filter *topology.Filter) topology.Snapshot {
	if filter == nil {
		filter = topology.MatchAll()
	}

	type topicEntry struct {
		replicationFactor int
		partitions        []topology.PartitionInfo
	}
	topics := map[string]*topicEntry{}
	order := []string{}

	for _, line := range strings.Split(output, "\n") {
		if m := topicLineRegexp.FindStringSubmatch(line); m != nil {
			name := m[1]
			if !filter.Matches(name) {
				continue
			}
			if _, ok := topics[name]; !ok {
				rf, err := strconv.Atoi(m[2])
				if err != nil {
					continue
				}
				topics[name] = &topicEntry{replicationFactor: rf}
				order = append(order, name)
			}
		} else if m := partitionLineRegexp.FindStringSubmatch(line); m != nil {
			name := m[1]
			entry, ok := topics[name]
			if !ok {
				continue
			}

			partitionID, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}

			replicas, err := parseReplicaList(m[3])
			if err != nil {
				continue
			}

			entry.partitions = append(
				entry.partitions,
				topology.PartitionInfo{
					Topic:    name,
					ID:       partitionID,
					Replicas: replicas,
				},
			)
		}
	}

	topicInfos := []topology.TopicInfo{}
	for _, name := range order {
		entry := topics[name]
		topicInfos = append(
			topicInfos,
			topology.TopicInfo{
				Name:              name,
				ReplicationFactor: entry.replicationFactor,
				Partitions:        entry.partitions,
			},
		)
	}

	return topology.NewSnapshot(topicInfos)
}

func parseReplicaList(value string) ([]int, error) {
	replicas := []int{}

	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		replica, err := strconv.Atoi(token)
		if err != nil {
			return nil, err
		}
		replicas = append(replicas, replica)
	}

	if len(replicas) == 0 {
		return nil, fmt.Errorf("empty replica list %q", value)
	}

	return replicas, nil
}
