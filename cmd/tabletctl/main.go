// Command tabletctl talks to a tablet driver over a socket channel.
//
// Usage:
//
//	tabletctl [flags] <command> [args...]
//	tabletctl [flags] shell
//
// Flags:
//
//	-config string     Configuration file (.toml, .yaml or .yml)
//	-network string    Network of the driver socket: unix or tcp
//	-address string    Socket path or host:port of the driver
//	-log-level string  Log level: debug, info, warn, error
//	-strict            Reject zero indices before sending
//
// Examples:
//
//	# Count the attached tablets of the simulator started by tabletsim
//	tabletctl tablets
//
//	# Read the name of the first tablet through context 7
//	tabletctl get name utf8 context:7
//
//	# Interactive session; contexts left open are destroyed on exit
//	tabletctl -address 127.0.0.1:7070 -network tcp shell
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/arloliu/go-tabletae/config"
	"github.com/arloliu/go-tabletae/driver"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/arloliu/go-tabletae/transport/sockchan"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "tabletctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("tabletctl", flag.ContinueOnError)
	configFile := fs.String("config", "", "configuration file (.toml, .yaml or .yml)")
	network := fs.String("network", "", "network of the driver socket: unix or tcp")
	address := fs.String("address", "", "socket path or host:port of the driver")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	strict := fs.Bool("strict", false, "reject zero indices before sending")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: tabletctl [flags] <command> [args...]")
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), commandHelp)
		fmt.Fprintln(fs.Output(), "  shell                                   interactive session")
	}

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return err
		}
	}
	if *network != "" {
		cfg.Network = *network
	}
	if *address != "" {
		cfg.Address = *address
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *strict {
		cfg.StrictIndexes = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	l, err := cfg.Logger()
	if err != nil {
		return err
	}
	logger.SetDefault(l)

	dialOpts, err := cfg.DialOptions()
	if err != nil {
		return err
	}
	conn, err := sockchan.Dial(cfg.Network, cfg.Address, append(dialOpts, sockchan.WithLogger(l))...)
	if err != nil {
		return err
	}
	defer conn.Close()

	clientOpts, err := cfg.ClientOptions()
	if err != nil {
		return err
	}
	client, err := driver.NewClient(conn, append(clientOpts, driver.WithLogger(l))...)
	if err != nil {
		return err
	}

	if fs.Arg(0) == "shell" {
		sh, err := newShell(client)
		if err != nil {
			return err
		}
		sh.run()

		return nil
	}

	err = (&runner{client: client, out: os.Stdout}).run(fs.Args())
	if errors.Is(err, errUsage) {
		fs.Usage()
	}

	return err
}
