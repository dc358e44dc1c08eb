// Command tabletsim runs a simulated tablet driver on a socket, for development of tools
// built on go-tabletae without a tablet attached.
//
// Usage:
//
//	tabletsim [flags]
//
// Flags:
//
//	-config string         Configuration file (.toml, .yaml or .yml); network and address are used
//	-network string        Network to listen on: unix or tcp
//	-address string        Socket path or host:port to listen on
//	-tablets int           Number of attached tablets (default 1)
//	-name string           Name of the simulated tablets (default "Intuos Pro")
//	-first-context uint    Id of the first created context (default 1)
//	-log-level string      Log level: debug, info, warn, error
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/go-tabletae/config"
	"github.com/arloliu/go-tabletae/internal/simdriver"
	"github.com/arloliu/go-tabletae/logger"
	"github.com/arloliu/go-tabletae/transport/sockchan"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tabletsim:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("tabletsim", flag.ContinueOnError)
	configFile := fs.String("config", "", "configuration file (.toml, .yaml or .yml)")
	network := fs.String("network", "", "network to listen on: unix or tcp")
	address := fs.String("address", "", "socket path or host:port to listen on")
	tablets := fs.Int("tablets", 1, "number of attached tablets")
	name := fs.String("name", simdriver.DefaultTablet().Name, "name of the simulated tablets")
	firstContext := fs.Uint("first-context", 1, "id of the first created context")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return err
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
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *tablets < 0 {
		return errors.New("tablets must not be negative")
	}
	if *firstContext == 0 || uint64(*firstContext) > math.MaxUint32 {
		return errors.New("first-context must be in range [1, 4294967295]")
	}

	l, err := cfg.Logger()
	if err != nil {
		return err
	}
	logger.SetDefault(l)

	tablet := simdriver.DefaultTablet()
	tablet.Name = *name
	configs := make([]simdriver.TabletConfig, *tablets)
	for i := range configs {
		configs[i] = tablet
	}

	sim, err := simdriver.New(
		simdriver.WithLogger(l),
		simdriver.WithTablets(configs...),
		simdriver.WithFirstContextID(uint32(*firstContext)), //nolint:gosec // range checked above
	)
	if err != nil {
		return err
	}

	if cfg.Network == "unix" {
		// A socket file left behind by a previous run blocks Listen.
		if err := os.Remove(cfg.Address); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	listener, err := net.Listen(cfg.Network, cfg.Address)
	if err != nil {
		return err
	}

	srv, err := sockchan.NewServer(sim, sockchan.WithLogger(l))
	if err != nil {
		_ = listener.Close()
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		l.Info("tabletsim: shutting down", "signal", sig.String())
		_ = srv.Close()
	}()

	l.Info("tabletsim: simulated driver ready", "network", cfg.Network, "address", cfg.Address, "tablets", *tablets)

	if err := srv.Serve(listener); err != nil && !errors.Is(err, sockchan.ErrServerClosed) {
		return err
	}

	return nil
}
