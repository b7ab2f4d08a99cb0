package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	log "github.com/sirupsen/logrus"

	"github.com/kafka-ops/kplan/pkg/admin"
	"github.com/kafka-ops/kplan/pkg/plan"
	"github.com/kafka-ops/kplan/pkg/topology"
	"github.com/kafka-ops/kplan/pkg/util"
)

const (
	spinnerCharSet  = 36
	spinnerDuration = 200 * time.Millisecond
)

// SessionConfig configures an interactive planning session.
type SessionConfig struct {
	Loader   admin.Loader
	Prompter Prompter

	// OutDir is where plan files are written; empty means the current
	// working directory.
	OutDir string

	// BootstrapAddr and CommandConfigPath are echoed into the
	// next-steps instructions.
	BootstrapAddr     string
	CommandConfigPath string

	// Printer overrides the output function; nil means stdout.
	Printer func(f string, a ...interface{})

	ShowSpinner bool

	// ReassignerOpts are passed through to the reassignment planner,
	// mainly so tests can pin the random source.
	ReassignerOpts []plan.ReassignerOpt
}

// Session drives the interactive workflow: load a topology snapshot, then
// loop over the main menu building reassignment and leader-election plans
// until the user stops. The snapshot is replaced wholesale on refresh and
// never modified in place.
type Session struct {
	config     SessionConfig
	printer    func(f string, a ...interface{})
	spinnerObj *spinner.Spinner
	snapshot   topology.Snapshot
}

// NewSession initializes a Session from the argument config.
func NewSession(config SessionConfig) *Session {
	printer := config.Printer
	if printer == nil {
		printer = func(f string, a ...interface{}) {
			fmt.Printf(f+"\n", a...)
		}
	}

	var spinnerObj *spinner.Spinner
	if config.ShowSpinner && util.InTerminal() {
		spinnerObj = spinner.New(
			spinner.CharSets[spinnerCharSet],
			spinnerDuration,
			spinner.WithWriter(os.Stderr),
			spinner.WithHiddenCursor(true),
		)
		spinnerObj.Prefix = "Loading: "
	}

	return &Session{
		config:     config,
		printer:    printer,
		spinnerObj: spinnerObj,
	}
}

// Run executes the session until the user exits or aborts. A failed
// initial load is fatal; a failed refresh keeps the previous snapshot.
func (s *Session) Run(ctx context.Context) error {
	if err := s.initialLoad(ctx); err != nil {
		return s.finish(err)
	}

	for {
		s.printer("Select an operation:")
		s.printer("  1. Build a reassign partitions plan.")
		s.printer("  2. Build a preferred leader election plan.")
		s.printer("  3. Exit")

		choice, err := s.config.Prompter.Line("Choose [1/2/3]")
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case "1":
			if err := s.runReassignment(ctx); err != nil {
				return s.finish(err)
			}
		case "2":
			if err := s.runElection(ctx); err != nil {
				return s.finish(err)
			}
		case "3":
			s.printer("Goodbye! Generated plan files remain in %s.", s.outDir())
			return nil
		default:
			log.Warn("Invalid option. Please try again.")
			continue
		}

		again, err := s.promptContinue(ctx)
		if err != nil {
			return s.finish(err)
		}
		if !again {
			s.printer("Goodbye! Generated plan files remain in %s.", s.outDir())
			return nil
		}
	}
}

func (s *Session) initialLoad(ctx context.Context) error {
	filter, err := s.promptFilter()
	if err != nil {
		return err
	}

	snapshot, err := s.fetch(ctx, filter)
	if err != nil {
		return fmt.Errorf("could not load initial topic data: %v", err)
	}

	s.snapshot = snapshot
	s.printTotals()
	return nil
}

// promptFilter asks for a topic filter expression until a valid one is
// entered.
func (s *Session) promptFilter() (*topology.Filter, error) {
	for {
		expr, err := s.config.Prompter.Line(
			"Enter a topic name filter (substring, comma-list, regex, or * for all)",
		)
		if err != nil {
			return nil, err
		}

		filter, err := topology.NewFilter(expr)
		if err != nil {
			log.Errorf("%v", err)
			continue
		}

		return filter, nil
	}
}

func (s *Session) fetch(
	ctx context.Context,
	filter *topology.Filter,
) (topology.Snapshot, error) {
	s.startSpinner()
	snapshot, err := s.config.Loader.Fetch(ctx, filter)
	s.stopSpinner()
	if err != nil {
		return topology.Snapshot{}, err
	}

	if snapshot.NumTopics() == 0 {
		log.Warnf("No topics found matching filter %q.", filter.String())
	}

	return snapshot, nil
}

func (s *Session) printTotals() {
	internal := s.snapshot.InternalTopics()
	custom := s.snapshot.CustomTopics()

	s.printer(
		"Loaded %d custom topics and %d internal topics (%d partitions total).",
		len(custom),
		len(internal),
		s.snapshot.TotalPartitions(),
	)
	log.Debugf("Topics in scope:\n%s", admin.FormatTopics(s.snapshot.Topics()))
}

// runReassignment builds a randomized reassignment plan for every
// partition in the snapshot and writes it to the reassignment file.
func (s *Session) runReassignment(ctx context.Context) error {
	brokerIDs := s.snapshot.BrokerIDs()
	if len(brokerIDs) == 0 {
		log.Error("Could not compile a broker list from loaded topics. Aborting action.")
		return nil
	}

	internal := s.snapshot.InternalTopics()
	custom := s.snapshot.CustomTopics()

	s.printer("Plan generation summary:")
	s.printer("  Operating on %d custom and %d internal topics.", len(custom), len(internal))
	s.printer(
		"  Generating a new replica distribution for %d partitions.",
		s.snapshot.TotalPartitions(),
	)
	s.printer("  Brokers available for assignment: %s", admin.FormatBrokerIDs(brokerIDs))

	confirmed, err := s.config.Prompter.Confirm(
		"Proceed with generating the reassignment plan?",
	)
	if err != nil {
		return err
	}
	if !confirmed {
		s.printer("Operation cancelled.")
		return nil
	}

	reassigner, err := plan.NewReassigner(brokerIDs, s.config.ReassignerOpts...)
	if err != nil {
		return err
	}
	result := reassigner.Plan(s.snapshot)
	log.Debugf(
		"Planned assignments:\n%s",
		plan.FormatAssignments(result.Assignments, plan.CurrentReplicas(s.snapshot.Topics())),
	)

	if len(result.Skipped) > 0 {
		s.printer(
			"Skipped %d partition(s) with too few available brokers:\n%s",
			len(result.Skipped),
			plan.FormatSkipped(result.Skipped),
		)
	}

	outfile := filepath.Join(s.outDir(), plan.ReassignmentFileName)
	if err := plan.WriteFile(outfile, plan.NewAssignmentDoc(result.Assignments)); err != nil {
		return err
	}

	s.printer(
		"Wrote rebalance plan to %q for %d partition(s).",
		outfile,
		len(result.Assignments),
	)
	s.printer("%s", nextStepsReassign(outfile, s.config.BootstrapAddr, s.config.CommandConfigPath))

	return nil
}

// electionState tracks progress through the leader-election workflow.
type electionState int

const (
	stateSelectScope electionState = iota
	stateSelectBroker
	stateConfirm
)

// runElection walks the leader-election state machine: select a topic
// scope, select a target broker, then confirm before committing. Restart
// discards prior selections; cancel produces no output.
func (s *Session) runElection(ctx context.Context) error {
	brokerIDs := s.snapshot.BrokerIDs()
	if len(brokerIDs) == 0 {
		log.Error("Could not compile a broker list from loaded topics. Aborting action.")
		return nil
	}

	planner, err := plan.NewLeaderPlanner(brokerIDs)
	if err != nil {
		return err
	}

	state := stateSelectScope
	var selected []topology.TopicInfo
	var targetBroker int

	for {
		switch state {
		case stateSelectScope:
			selected, err = s.selectScope()
			if err != nil {
				return err
			}
			if selected == nil {
				s.printer("Operation cancelled.")
				return nil
			}
			state = stateSelectBroker

		case stateSelectBroker:
			targetBroker, err = s.selectBroker(planner)
			if err != nil {
				return err
			}
			state = stateConfirm

		case stateConfirm:
			partitionCount := 0
			for _, topic := range selected {
				partitionCount += len(topic.Partitions)
			}

			s.printer("CONFIRMATION")
			s.printer("  Action: set broker %d as the preferred leader.", targetBroker)
			s.printer(
				"  Scope: %d partitions across %d topics.",
				partitionCount,
				len(selected),
			)

			confirmed, err := s.config.Prompter.Confirm("Proceed with generating the plans?")
			if err != nil {
				return err
			}
			if confirmed {
				return s.commitElection(planner, selected, targetBroker)
			}

			restart, err := s.config.Prompter.Confirm(
				"Would you like to restart the selection process?",
			)
			if err != nil {
				return err
			}
			if restart {
				selected = nil
				state = stateSelectScope
				continue
			}

			s.printer("Leader election action cancelled.")
			return nil
		}
	}
}

// selectScope picks the topic subset for leader election. A nil result
// with nil error means the user cancelled.
func (s *Session) selectScope() ([]topology.TopicInfo, error) {
	topicNames := s.snapshot.TopicNames()
	s.printer("There are %d topics currently in scope.", len(topicNames))
	log.Debugf("Topics currently loaded: %v", topicNames)

	for {
		choice, err := s.config.Prompter.Line(
			"Apply to (A)ll topics, or specify a (F)ilter? [A/F]",
		)
		if err != nil {
			return nil, err
		}

		var selected []topology.TopicInfo

		switch {
		case startsWithFold(choice, "a"):
			selected = s.snapshot.Topics()
		case startsWithFold(choice, "f"):
			expr, err := s.config.Prompter.Line(
				"Enter a topic name filter (substring, comma-list, or * for all)",
			)
			if err != nil {
				return nil, err
			}

			filter, err := topology.NewFilter(expr)
			if err != nil {
				log.Errorf("%v", err)
				continue
			}
			selected = filter.SelectTopics(s.snapshot)
		default:
			log.Warn("Invalid choice. Please enter 'A' for All or 'F' for Filter.")
			continue
		}

		if len(selected) == 0 {
			log.Error("No loaded topics matched your selection. Please try again.")
			continue
		}

		confirmed, err := s.config.Prompter.Confirm(
			fmt.Sprintf("Proceed with %d selected topics?", len(selected)),
		)
		if err != nil {
			return nil, err
		}
		if !confirmed {
			return nil, nil
		}

		return selected, nil
	}
}

// selectBroker picks the target leader, re-prompting until the entry is a
// valid member of the broker universe.
func (s *Session) selectBroker(planner *plan.LeaderPlanner) (int, error) {
	s.printer(
		"Brokers available based on loaded topics: %s",
		admin.FormatBrokerIDs(planner.BrokerIDs()),
	)

	for {
		entry, err := s.config.Prompter.Line("Enter the Broker ID to be the new leader")
		if err != nil {
			return 0, err
		}

		brokerID, err := strconv.Atoi(entry)
		if err != nil {
			log.Error("Invalid Broker ID. Please enter a number.")
			continue
		}

		if err := planner.ValidateBroker(brokerID); err != nil {
			log.Errorf("%v", err)
			continue
		}

		return brokerID, nil
	}
}

func (s *Session) commitElection(
	planner *plan.LeaderPlanner,
	selected []topology.TopicInfo,
	targetBroker int,
) error {
	result, err := planner.Plan(selected, targetBroker)
	if err != nil {
		return err
	}
	log.Debugf(
		"Planned assignments:\n%s",
		plan.FormatAssignments(result.Assignments, plan.CurrentReplicas(selected)),
	)

	if len(result.Expanded) > 0 {
		s.printer(
			"Note: %d partition(s) gain broker %d as a new replica (it was not previously assigned).",
			len(result.Expanded),
			targetBroker,
		)
	}

	reassignFile := filepath.Join(s.outDir(), plan.LeaderReassignmentFileName)
	electionFile := filepath.Join(s.outDir(), plan.ElectionFileName)

	if err := plan.WriteFile(reassignFile, plan.NewAssignmentDoc(result.Assignments)); err != nil {
		return err
	}
	if err := plan.WriteFile(electionFile, plan.ElectionDoc{Partitions: result.Election}); err != nil {
		return err
	}

	s.printer(
		"Wrote reassignment plan to %q and leader election plan to %q (%d partition(s), leader: broker %d).",
		reassignFile,
		electionFile,
		len(result.Election),
		targetBroker,
	)
	s.printer("%s", nextStepsElection(
		reassignFile,
		electionFile,
		s.config.BootstrapAddr,
		s.config.CommandConfigPath,
	))

	return nil
}

// promptContinue handles the post-action choice: repeat, refresh the
// topology and repeat, or stop.
func (s *Session) promptContinue(ctx context.Context) (bool, error) {
	choice, err := s.config.Prompter.Line(
		"Perform another operation? [Y]es / [R]efresh data & continue / [N]o",
	)
	if err != nil {
		return false, err
	}

	switch {
	case startsWithFold(choice, "r"):
		if err := s.refresh(ctx); err != nil {
			return false, err
		}
		return true, nil
	case startsWithFold(choice, "y"):
		return true, nil
	default:
		return false, nil
	}
}

// refresh replaces the snapshot. A failed fetch retains the existing
// snapshot and is not an error; a prompt abort is returned so the session
// terminates.
func (s *Session) refresh(ctx context.Context) error {
	filter, err := s.promptFilter()
	if err != nil {
		return err
	}

	snapshot, err := s.fetch(ctx, filter)
	if err != nil {
		log.Errorf("Failed to refresh topic data, keeping existing data set: %v", err)
		return nil
	}

	s.snapshot = snapshot
	s.printer("Topic data refreshed successfully.")
	s.printTotals()
	return nil
}

// finish converts a user abort into a clean exit.
func (s *Session) finish(err error) error {
	if errors.Is(err, ErrAborted) {
		s.printer("Exiting on user request. Generated plan files remain in %s.", s.outDir())
		return nil
	}
	return err
}

func (s *Session) outDir() string {
	if s.config.OutDir == "" {
		return "."
	}
	return s.config.OutDir
}

func (s *Session) startSpinner() {
	if s.spinnerObj != nil {
		s.spinnerObj.Start()
	}
}

func (s *Session) stopSpinner() {
	if s.spinnerObj != nil && s.spinnerObj.Active() {
		s.spinnerObj.Stop()
	}
}

func startsWithFold(value string, prefix string) bool {
	return len(value) >= len(prefix) && strings.EqualFold(value[:len(prefix)], prefix)
}
