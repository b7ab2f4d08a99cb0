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

var reassignCmd = &cobra.Command{
	Use:   "reassign",
	Short: "Generate a randomized partition reassignment plan",
	RunE:  reassignRun,
}

type reassignCmdConfig struct {
	topics string
	outDir string

	shared sharedOptions
}

var reassignConfig reassignCmdConfig

func init() {
	reassignCmd.Flags().StringVar(
		&reassignConfig.topics,
		"topics",
		"*",
		"Filter expression selecting the topics to operate on",
	)
	reassignCmd.Flags().StringVar(
		&reassignConfig.outDir,
		"out-dir",
		".",
		"Directory that the plan file is written to",
	)

	addSharedFlags(reassignCmd, &reassignConfig.shared)
	RootCmd.AddCommand(reassignCmd)
}

func reassignRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := reassignConfig.shared.validate(); err != nil {
		return err
	}

	filter, err := topology.NewFilter(reassignConfig.topics)
	if err != nil {
		return err
	}

	loader, _, err := reassignConfig.shared.getLoader()
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

	reassigner, err := plan.NewReassigner(snapshot.BrokerIDs())
	if err != nil {
		return err
	}
	result := reassigner.Plan(snapshot)

	log.Infof(
		"Planned assignments:\n%s",
		plan.FormatAssignments(result.Assignments, plan.CurrentReplicas(snapshot.Topics())),
	)

	if len(result.Skipped) > 0 {
		log.Warnf(
			"Skipped %d partition(s) with too few available brokers:\n%s",
			len(result.Skipped),
			plan.FormatSkipped(result.Skipped),
		)
	}

	if err := plan.CheckAssignments(result.Assignments, snapshot.BrokerIDs()); err != nil {
		return err
	}

	outfile := filepath.Join(reassignConfig.outDir, plan.ReassignmentFileName)
	if err := plan.WriteFile(outfile, plan.NewAssignmentDoc(result.Assignments)); err != nil {
		return err
	}

	log.Infof(
		"Wrote rebalance plan to %q for %d partition(s)",
		outfile,
		len(result.Assignments),
	)
	return nil
}
