package subcmd

import (
	"context"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kafka-ops/kplan/pkg/cli"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"wizard"},
	Short:   "Plan reassignments and leader elections through guided prompts",
	RunE:    interactiveRun,
}

type interactiveCmdConfig struct {
	outDir  string
	logFile string

	shared sharedOptions
}

var interactiveConfig interactiveCmdConfig

func init() {
	interactiveCmd.Flags().StringVar(
		&interactiveConfig.outDir,
		"out-dir",
		".",
		"Directory that plan files are written to",
	)
	interactiveCmd.Flags().StringVar(
		&interactiveConfig.logFile,
		"log-file",
		"kplan.log",
		"File that session logs are appended to (empty to disable)",
	)

	addSharedFlags(interactiveCmd, &interactiveConfig.shared)
	RootCmd.AddCommand(interactiveCmd)
}

func interactiveRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	prompter := cli.NewTerminalPrompter()

	if interactiveConfig.logFile != "" {
		closer, err := teeLogsToFile(interactiveConfig.logFile)
		if err != nil {
			return err
		}
		defer closer()
	}

	// The wizard keeps running across plan generations; an unclassified
	// failure should be reported instead of dumping a stack at the user.
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Unexpected failure: %v", r)
			os.Exit(1)
		}
	}()

	if err := promptMissingConnection(prompter, &interactiveConfig.shared); err != nil {
		return err
	}
	if err := interactiveConfig.shared.validate(); err != nil {
		return err
	}

	loader, clusterConfig, err := interactiveConfig.shared.getLoader()
	if err != nil {
		return err
	}

	log.Infof("Starting planning session against %s", clusterConfig.Summary())

	session := cli.NewSession(
		cli.SessionConfig{
			Loader:            loader,
			Prompter:          prompter,
			OutDir:            interactiveConfig.outDir,
			BootstrapAddr:     clusterConfig.Spec.BootstrapAddr,
			CommandConfigPath: clusterConfig.Spec.CommandConfigPath,
			ShowSpinner:       !noSpinner,
		},
	)

	return session.Run(ctx)
}

// promptMissingConnection asks for connection settings that were not
// provided as flags, so the wizard can be started with no arguments.
func promptMissingConnection(prompter cli.Prompter, options *sharedOptions) error {
	if options.clusterConfig != "" || options.bootstrapAddr != "" {
		return nil
	}

	addr, err := prompter.Line("Enter the bootstrap server (host:port)")
	if err != nil {
		return err
	}
	options.bootstrapAddr = addr

	hasConfig, err := prompter.Confirm(
		"Does the cluster require a client properties file (SASL/SSL)?",
	)
	if err != nil {
		return err
	}
	if hasConfig {
		path, err := prompter.Line("Enter the path to the client properties file")
		if err != nil {
			return err
		}
		options.commandConfig = path
	}

	return nil
}

// teeLogsToFile sends log output to both stderr and the argument file.
func teeLogsToFile(path string) (func(), error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	log.SetOutput(io.MultiWriter(os.Stderr, file))

	return func() {
		log.SetOutput(os.Stderr)
		file.Close()
	}, nil
}
