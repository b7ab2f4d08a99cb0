package cli

import (
	"fmt"
	"strings"
)

// nextStepsReassign builds the follow-up instructions shown after a
// reassignment plan is written. The command strings target the standard
// Kafka CLI tooling that executes plans.
func nextStepsReassign(outfile string, bootstrap string, commandConfig string) string {
	execCmd := reassignCmd(outfile, bootstrap, commandConfig, "--execute")
	verifyCmd := reassignCmd(outfile, bootstrap, commandConfig, "--verify")
	describeCmd := describeTopicCmd(bootstrap, commandConfig)

	lines := []string{
		"NEXT STEPS",
		"",
		"  1. To execute, run:",
		"     " + execCmd,
		"",
		"  2. To verify, run:",
		"     " + verifyCmd,
		"",
		"  3. To inspect assignments:",
		"     " + describeCmd,
	}

	return strings.Join(lines, "\n")
}

// nextStepsElection extends the reassignment instructions with the
// preferred-leader election step.
func nextStepsElection(
	reassignFile string,
	electionFile string,
	bootstrap string,
	commandConfig string,
) string {
	electionCmd := fmt.Sprintf(
		"kafka-leader-election --bootstrap-server %s %s--path-to-json-file %s --election-type preferred",
		bootstrap,
		commandConfigArg(commandConfig),
		electionFile,
	)

	lines := []string{
		nextStepsReassign(reassignFile, bootstrap, commandConfig),
		"",
		"  4. After partitions sync, run preferred leader election:",
		"     " + electionCmd,
		"",
		"  5. Inspect assignments post-election to confirm the leader.",
	}

	return strings.Join(lines, "\n")
}

func reassignCmd(outfile string, bootstrap string, commandConfig string, action string) string {
	return fmt.Sprintf(
		"kafka-reassign-partitions --bootstrap-server %s %s--reassignment-json-file %s %s",
		bootstrap,
		commandConfigArg(commandConfig),
		outfile,
		action,
	)
}

func describeTopicCmd(bootstrap string, commandConfig string) string {
	return fmt.Sprintf(
		"kafka-topics --bootstrap-server %s %s--describe --topic <YOUR_TOPIC>",
		bootstrap,
		commandConfigArg(commandConfig),
	)
}

func commandConfigArg(commandConfig string) string {
	if commandConfig == "" {
		return ""
	}
	return fmt.Sprintf("--command-config %s ", commandConfig)
}
