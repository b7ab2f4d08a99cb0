package subcmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kafka-ops/kplan/pkg/cli"
	"github.com/kafka-ops/kplan/pkg/topology"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively inspect topics and generate plans",
	RunE:  replRun,
}

type replCmdConfig struct {
	topics string
	outDir string

	shared sharedOptions
}

var replConfig replCmdConfig

func init() {
	replCmd.Flags().StringVar(
		&replConfig.topics,
		"topics",
		"*",
		"Filter expression selecting the topics to load",
	)
	replCmd.Flags().StringVar(
		&replConfig.outDir,
		"out-dir",
		".",
		"Directory that plan files are written to",
	)

	addSharedFlags(replCmd, &replConfig.shared)
	RootCmd.AddCommand(replCmd)
}

func replRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := replConfig.shared.validate(); err != nil {
		return err
	}

	filter, err := topology.NewFilter(replConfig.topics)
	if err != nil {
		return err
	}

	loader, clusterConfig, err := replConfig.shared.getLoader()
	if err != nil {
		return err
	}

	repl, err := cli.NewRepl(
		ctx,
		loader,
		filter,
		replConfig.outDir,
		clusterConfig.Spec.BootstrapAddr,
		clusterConfig.Spec.CommandConfigPath,
	)
	if err != nil {
		return err
	}

	repl.Run()
	return nil
}
