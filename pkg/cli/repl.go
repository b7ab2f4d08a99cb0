package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	log "github.com/sirupsen/logrus"

	"github.com/kafka-ops/kplan/pkg/admin"
	"github.com/kafka-ops/kplan/pkg/plan"
	"github.com/kafka-ops/kplan/pkg/topology"
)

var (
	commandSuggestions = []prompt.Suggest{
		{
			Text:        "get",
			Description: "Show loaded topics, partitions, or brokers",
		},
		{
			Text:        "plan",
			Description: "Generate a reassignment or leader election plan",
		},
		{
			Text:        "refresh",
			Description: "Reload topic data from the cluster",
		},
		{
			Text:        "help",
			Description: "Show all commands",
		},
		{
			Text:        "exit",
			Description: "Quit the repl",
		},
	}

	getSuggestions = []prompt.Suggest{
		{
			Text:        "brokers",
			Description: "Show the broker universe derived from loaded topics",
		},
		{
			Text:        "partitions",
			Description: "Show the partitions of a topic",
		},
		{
			Text:        "topics",
			Description: "Show all loaded topics",
		},
	}

	planSuggestions = []prompt.Suggest{
		{
			Text:        "election",
			Description: "Generate preferred-leader plans for a broker",
		},
		{
			Text:        "reassign",
			Description: "Generate a randomized reassignment plan",
		},
	}

	helpTableStr = helpTable()
)

// Repl provides a non-wizard surface over the same planning operations:
// inspect the loaded topology and generate plan files with single
// commands.
type Repl struct {
	loader   admin.Loader
	snapshot topology.Snapshot
	outDir   string

	bootstrapAddr     string
	commandConfigPath string

	topicSuggestions  []prompt.Suggest
	brokerSuggestions []prompt.Suggest
}

// NewRepl fetches the initial snapshot and builds the auto-complete
// suggestion lists from it.
func NewRepl(
	ctx context.Context,
	loader admin.Loader,
	filter *topology.Filter,
	outDir string,
	bootstrapAddr string,
	commandConfigPath string,
) (*Repl, error) {
	log.Debug("Loading topic data for the repl")
	snapshot, err := loader.Fetch(ctx, filter)
	if err != nil {
		return nil, err
	}

	repl := &Repl{
		loader:            loader,
		outDir:            outDir,
		bootstrapAddr:     bootstrapAddr,
		commandConfigPath: commandConfigPath,
	}
	repl.setSnapshot(snapshot)

	return repl, nil
}

func (r *Repl) setSnapshot(snapshot topology.Snapshot) {
	r.snapshot = snapshot

	topicSuggestions := []prompt.Suggest{}
	for _, name := range snapshot.TopicNames() {
		topicSuggestions = append(topicSuggestions, prompt.Suggest{Text: name})
	}

	brokerSuggestions := []prompt.Suggest{}
	for _, brokerID := range snapshot.BrokerIDs() {
		brokerSuggestions = append(
			brokerSuggestions,
			prompt.Suggest{
				Text:        strconv.Itoa(brokerID),
				Description: fmt.Sprintf("Broker %d", brokerID),
			},
		)
	}

	r.topicSuggestions = topicSuggestions
	r.brokerSuggestions = brokerSuggestions
}

// Run starts the repl main loop.
func (r *Repl) Run() {
	fmt.Printf(
		"Welcome to the kplan repl (%d topics loaded). Type 'help' for available commands.\n",
		r.snapshot.NumTopics(),
	)

	promptObj := prompt.New(
		r.executor,
		r.completer,
		prompt.OptionPrefix(">>> "),
	)
	promptObj.Run()
}

func (r *Repl) executor(in string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	defer signal.Stop(sigChan)

	input := parseReplInput(in)
	if len(input.args) == 0 {
		return
	}

	switch input.args[0] {
	case "exit":
		fmt.Println("Bye!")
		os.Exit(0)
	case "help":
		if err := input.check(1, 1); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		fmt.Printf("> Commands:\n%s\n", helpTableStr)
	case "get":
		r.runGet(input)
	case "plan":
		r.runPlan(input)
	case "refresh":
		r.runRefresh(ctx, input)
	default:
		log.Error("Unrecognized input. Run 'help' for details on available commands.")
	}
}

func (r *Repl) runGet(input replInput) {
	if len(input.args) == 1 {
		log.Error("Unrecognized input. Run 'help' for details on available commands.")
		return
	}

	switch input.args[1] {
	case "brokers":
		if err := input.check(2, 2); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		fmt.Printf("> Brokers: %s\n", admin.FormatBrokerIDs(r.snapshot.BrokerIDs()))
	case "partitions":
		if err := input.check(3, 3); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		topic, ok := r.snapshot.Get(input.args[2])
		if !ok {
			log.Errorf("Topic %q is not in the loaded data set", input.args[2])
			return
		}
		fmt.Printf("%s\n", admin.FormatPartitions(topic.Partitions))
	case "topics":
		if err := input.check(2, 2, "internal"); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		topics := r.snapshot.Topics()
		if input.boolFlag("internal") {
			topics = r.snapshot.InternalTopics()
		}
		fmt.Printf("%s\n", admin.FormatTopics(topics))
	default:
		log.Error("Unrecognized input. Run 'help' for details on available commands.")
	}
}

func (r *Repl) runPlan(input replInput) {
	if len(input.args) == 1 {
		log.Error("Unrecognized input. Run 'help' for details on available commands.")
		return
	}

	brokerIDs := r.snapshot.BrokerIDs()
	if len(brokerIDs) == 0 {
		log.Error("Could not compile a broker list from loaded topics")
		return
	}

	switch input.args[1] {
	case "reassign":
		if err := input.check(2, 2); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}

		reassigner, err := plan.NewReassigner(brokerIDs)
		if err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		result := reassigner.Plan(r.snapshot)

		if len(result.Skipped) > 0 {
			fmt.Printf(
				"> Skipped %d partition(s) with too few available brokers:\n%s\n",
				len(result.Skipped),
				plan.FormatSkipped(result.Skipped),
			)
		}

		outfile := filepath.Join(r.outDir, plan.ReassignmentFileName)
		if err := plan.WriteFile(outfile, plan.NewAssignmentDoc(result.Assignments)); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		fmt.Printf(
			"> Wrote rebalance plan to %q for %d partition(s)\n%s\n",
			outfile,
			len(result.Assignments),
			nextStepsReassign(outfile, r.bootstrapAddr, r.commandConfigPath),
		)
	case "election":
		if err := input.check(3, 4); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}

		targetBroker, err := strconv.Atoi(input.args[2])
		if err != nil {
			log.Errorf("Invalid broker ID %q", input.args[2])
			return
		}

		topics := r.snapshot.Topics()
		if len(input.args) == 4 {
			filter, err := topology.NewFilter(input.args[3])
			if err != nil {
				log.Errorf("Error: %+v", err)
				return
			}
			topics = filter.SelectTopics(r.snapshot)
		}

		planner, err := plan.NewLeaderPlanner(brokerIDs)
		if err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		result, err := planner.Plan(topics, targetBroker)
		if err != nil {
			log.Errorf("Error: %+v", err)
			return
		}

		reassignFile := filepath.Join(r.outDir, plan.LeaderReassignmentFileName)
		electionFile := filepath.Join(r.outDir, plan.ElectionFileName)
		if err := plan.WriteFile(reassignFile, plan.NewAssignmentDoc(result.Assignments)); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		if err := plan.WriteFile(electionFile, plan.ElectionDoc{Partitions: result.Election}); err != nil {
			log.Errorf("Error: %+v", err)
			return
		}
		fmt.Printf(
			"> Wrote %q and %q (%d partition(s), leader: broker %d)\n%s\n",
			reassignFile,
			electionFile,
			len(result.Election),
			targetBroker,
			nextStepsElection(reassignFile, electionFile, r.bootstrapAddr, r.commandConfigPath),
		)
	default:
		log.Error("Unrecognized input. Run 'help' for details on available commands.")
	}
}

func (r *Repl) runRefresh(ctx context.Context, input replInput) {
	if err := input.check(1, 2); err != nil {
		log.Errorf("Error: %+v", err)
		return
	}

	expr := "*"
	if len(input.args) == 2 {
		expr = input.args[1]
	}

	filter, err := topology.NewFilter(expr)
	if err != nil {
		log.Errorf("Error: %+v", err)
		return
	}

	snapshot, err := r.loader.Fetch(ctx, filter)
	if err != nil {
		log.Errorf("Failed to refresh topic data, keeping existing data set: %+v", err)
		return
	}

	r.setSnapshot(snapshot)
	fmt.Printf(
		"> Loaded %d topics (%d partitions)\n",
		snapshot.NumTopics(),
		snapshot.TotalPartitions(),
	)
}

func (r *Repl) completer(doc prompt.Document) []prompt.Suggest {
	var suggestions []prompt.Suggest
	text := doc.TextBeforeCursor()

	if text != "" {
		words := strings.Split(text, " ")
		if len(words) == 1 {
			suggestions = commandSuggestions
		} else if len(words) == 2 && words[0] == "get" {
			suggestions = getSuggestions
		} else if len(words) == 2 && words[0] == "plan" {
			suggestions = planSuggestions
		} else if len(words) == 3 && words[0] == "get" && words[1] == "partitions" {
			suggestions = r.topicSuggestions
		} else if len(words) == 3 && words[0] == "plan" && words[1] == "election" {
			suggestions = r.brokerSuggestions
		} else if len(words) == 4 && words[0] == "plan" && words[1] == "election" {
			suggestions = r.topicSuggestions
		}
	}

	return prompt.FilterHasPrefix(
		suggestions,
		doc.GetWordBeforeCursor(),
		true,
	)
}

func helpTable() string {
	buf := &bytes.Buffer{}

	configBuilder := tablewriter.NewConfigBuilder().WithRowAutoWrap(tw.WrapNone)
	for i := 0; i < 2; i++ {
		configBuilder = configBuilder.ForColumn(i).WithAlignment(tw.AlignLeft).Build()
	}

	table := tablewriter.NewTable(buf,
		tablewriter.WithConfig(configBuilder.Build()),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Top:    tw.Off,
				Right:  tw.Off,
				Bottom: tw.Off,
			},
		}),
	)

	rows := [][]string{
		{
			"  get brokers",
			"Show the broker universe derived from loaded topics",
		},
		{
			"  get partitions [topic]",
			"Show the partitions of a topic",
		},
		{
			"  get topics [--internal]",
			"Show all loaded topics",
		},
		{
			"  plan reassign",
			"Generate a randomized partition reassignment plan",
		},
		{
			"  plan election [broker] [optional filter]",
			"Generate preferred-leader plans for a broker",
		},
		{
			"  refresh [optional filter]",
			"Reload topic data from the cluster",
		},
		{
			"  help",
			"Show all commands",
		},
		{
			"  exit",
			"Quit the repl",
		},
	}
	for _, row := range rows {
		table.Append(row)
	}

	table.Render()
	return buf.String()
}
