package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arloliu/go-tabletae/driver"
	"github.com/chzyer/readline"
)

// shell runs commands read interactively. Contexts created in the shell and not destroyed
// are destroyed on exit.
type shell struct {
	client *driver.Client
	rl     *readline.Instance
	owned  map[uint32]struct{}
}

func newShell(client *driver.Client) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tablet> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("tablets"),
			readline.PcItem("transducers"),
			readline.PcItem("controls"),
			readline.PcItem("functions"),
			readline.PcItem("create"),
			readline.PcItem("destroy"),
			readline.PcItem("get"),
			readline.PcItem("set"),
			readline.PcItem("resend", readline.PcItem("prox"), readline.PcItem("pntr")),
			readline.PcItem("contexts"),
			readline.PcItem("help"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &shell{client: client, rl: rl, owned: make(map[uint32]struct{})}, nil
}

func (s *shell) run() {
	defer s.rl.Close()
	defer s.releaseContexts()

	out := s.rl.Stdout()
	r := &runner{
		client:    s.client,
		out:       out,
		onCreate:  func(id uint32) { s.owned[id] = struct{}{} },
		onDestroy: func(id uint32) { delete(s.owned, id) },
	}

	fmt.Fprintln(out, `Type "help" for commands, "exit" to quit.`)

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(s.rl.Stderr(), "read error:", err)
			}

			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "exit", "quit", "q":
			return
		case "help", "?":
			fmt.Fprintln(out, commandHelp)
		case "contexts":
			fmt.Fprintln(out, s.ownedContexts())
		default:
			if err := r.run(fields); err != nil {
				if errors.Is(err, errUsage) {
					fmt.Fprintln(s.rl.Stderr(), "invalid arguments, see help")
				} else {
					fmt.Fprintln(s.rl.Stderr(), "error:", err)
				}
			}
		}
	}
}

func (s *shell) ownedContexts() []uint32 {
	ids := make([]uint32, 0, len(s.owned))
	for id := range s.owned {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (s *shell) releaseContexts() {
	for _, id := range s.ownedContexts() {
		s.client.DestroyContext(id)
		delete(s.owned, id)
	}
}
