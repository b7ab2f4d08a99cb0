package subcmd

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kafka-ops/kplan/pkg/plan"
	"github.com/kafka-ops/kplan/pkg/topology"
)

var electionCmd = &cobra.Command{
	Use:   "election",
	Short: "Generate preferred-leader plans that move one broker to the front",
	RunE:  electionRun,
}

type electionCmdConfig struct {
	broker int
	topics string
	outDir string

	shared sharedOptions
}

var electionConfig electionCmdConfig

func init() {
	electionCmd.Flags().IntVar(
		&electionConfig.broker,
		"broker",
		-1,
		"Broker ID to become the preferred leader (required)",
	)
	electionCmd.MarkFlagRequired("broker")
	electionCmd.Flags().StringVar(
		&electionConfig.topics,
		"topics",
		"*",
		"Filter expression selecting the topics to operate on",
	)
	electionCmd.Flags().StringVar(
		&electionConfig.outDir,
		"out-dir",
		".",
		"Directory that the plan files are written to",
	)

	addSharedFlags(electionCmd, &electionConfig.shared)
	RootCmd.AddCommand(electionCmd)
}

func electionRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := electionConfig.shared.validate(); err != nil {
		return err
	}

	filter, err := topology.NewFilter(electionConfig.topics)
	if err != nil {
		return err
	}

	loader, _, err := electionConfig.shared.getLoader()
	if err != nil {
		return err
	}

	snapshot, err := loader.Fetch(ctx, filter)
	if err != nil {
		return err
	}
	if snapshot.NumTopics() == 0 {
		return fmt.Errorf("no topics matched filter %q", filter.String())
	}

	planner, err := plan.NewLeaderPlanner(snapshot.BrokerIDs())
	if err != nil {
		return err
	}

	result, err := planner.Plan(snapshot.Topics(), electionConfig.broker)
	if err != nil {
		return err
	}

	log.Infof(
		"Planned assignments:\n%s",
		plan.FormatAssignments(result.Assignments, plan.CurrentReplicas(snapshot.Topics())),
	)

	if len(result.Expanded) > 0 {
		log.Warnf(
			"%d partition(s) gain broker %d as a new replica",
			len(result.Expanded),
			electionConfig.broker,
		)
	}

	if err := plan.CheckAssignments(result.Assignments, snapshot.BrokerIDs()); err != nil {
		return err
	}

	reassignFile := filepath.Join(electionConfig.outDir, plan.LeaderReassignmentFileName)
	electionFile := filepath.Join(electionConfig.outDir, plan.ElectionFileName)

	if err := plan.WriteFile(reassignFile, plan.NewAssignmentDoc(result.Assignments)); err != nil {
		return err
	}
	if err := plan.WriteFile(electionFile, plan.ElectionDoc{Partitions: result.Election}); err != nil {
		return err
	}

	log.Infof(
		"Wrote %q and %q (%d partition(s), leader: broker %d)",
		reassignFile,
		electionFile,
		len(result.Election),
		electionConfig.broker,
	)
	return nil
}
