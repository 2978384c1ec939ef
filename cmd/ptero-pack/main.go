package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"stewart/internal/config"
	"stewart/internal/errs"
	"stewart/pkg/glog"
)

// command is one ptero-pack subcommand.
type command interface {
	Usage() string
	Flags(fs *pflag.FlagSet)
	Run(s *session, out io.Writer) error
}

var commands = map[string]func() command{
	"create": func() command { return &createCommand{} },
	"add":    func() command { return &addCommand{} },
	"get":    func() command { return &getCommand{} },
	"list":   func() command { return &listCommand{} },
	"config": func() command { return &configCommand{} },
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ptero-pack:", err)
		os.Exit(1)
	}
}

func run(args []string, out, errOut io.Writer) error {
	if len(args) == 0 {
		usage(errOut)
		return errors.Wrap(errs.ErrMissingArgument, "command")
	}
	newCommand, ok := commands[args[0]]
	if !ok {
		usage(errOut)
		return errors.Wrapf(errs.ErrUnknownCommand, "%q", args[0])
	}
	cmd := newCommand()

	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.StringP("config", "c", "", "path to a yaml config file")
	timeout := fs.Duration("timeout", 10*time.Second, "how long to wait for a reply when the runtime uses a pool")
	cmd.Flags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if c, ok := cmd.(*configCommand); ok {
		c.cfg = cfg
	}
	glog.Init(&cfg.Glog)
	defer glog.Stop()

	s, err := newSession(cfg, *timeout)
	if err != nil {
		return err
	}
	defer s.close()
	return cmd.Run(s, out)
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: ptero-pack <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name]().Usage())
	}
}
