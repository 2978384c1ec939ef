package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"stewart/internal/config"
	"stewart/internal/errs"
	"stewart/pkg/actor"
	"stewart/pkg/glog"
	"stewart/pkg/ptero"
)

func requireFlag(name, value string) error {
	if value == "" {
		return errors.Wrapf(errs.ErrMissingArgument, "--%s", name)
	}
	return nil
}

func parseRegionID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errs.ErrInvalidRegionID(value, err)
	}
	return id, nil
}

type createCommand struct {
	path string
}

func (c *createCommand) Usage() string { return "create an empty package" }

func (c *createCommand) Flags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.path, "package", "p", "", "path to create the package at")
}

func (c *createCommand) Run(s *session, out io.Writer) error {
	if err := requireFlag("package", c.path); err != nil {
		return err
	}
	glog.Info("creating package", zap.String("path", c.path))

	pkg, err := s.open(c.path, true)
	if err != nil {
		return err
	}
	defer pkg.Send(ptero.Close{})

	res, err := await(s, "init package", func(reply actor.Sender[ptero.IOResult]) {
		ptero.InitPackage(pkg, reply)
	})
	if err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}
	fmt.Fprintln(out, c.path)
	return nil
}

type addCommand struct {
	path  string
	id    string
	input string
}

func (c *addCommand) Usage() string { return "add a file to a package as a region" }

func (c *addCommand) Flags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.path, "package", "p", "", "path of the package")
	fs.StringVarP(&c.id, "id", "i", "", "region uuid, generated when empty")
	fs.StringVarP(&c.input, "input", "f", "", "file to add")
}

func (c *addCommand) Run(s *session, out io.Writer) error {
	if err := requireFlag("package", c.path); err != nil {
		return err
	}
	if err := requireFlag("input", c.input); err != nil {
		return err
	}
	id := uuid.New()
	if c.id != "" {
		var err error
		if id, err = parseRegionID(c.id); err != nil {
			return err
		}
	}
	data, err := os.ReadFile(c.input)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}

	pkg, err := s.open(c.path, false)
	if err != nil {
		return err
	}
	defer pkg.Send(ptero.Close{})

	res, err := await(s, "add data", func(reply actor.Sender[ptero.AddDataResult]) {
		ptero.AddData(s.rt.Starter(), pkg, id, data, reply)
	})
	if err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}
	fmt.Fprintf(out, "%s\t%d\t%d\n", res.Entry.RegionID, res.Entry.Offset, res.Entry.Size)
	return nil
}

type getCommand struct {
	path   string
	id     string
	output string
}

func (c *getCommand) Usage() string { return "read a region out of a package" }

func (c *getCommand) Flags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.path, "package", "p", "", "path of the package")
	fs.StringVarP(&c.id, "id", "i", "", "region uuid")
	fs.StringVarP(&c.output, "output", "o", "", "file to write, stdout when empty")
}

func (c *getCommand) Run(s *session, out io.Writer) error {
	if err := requireFlag("package", c.path); err != nil {
		return err
	}
	if err := requireFlag("id", c.id); err != nil {
		return err
	}
	id, err := parseRegionID(c.id)
	if err != nil {
		return err
	}

	pkg, err := s.open(c.path, false)
	if err != nil {
		return err
	}
	defer pkg.Send(ptero.Close{})

	res, err := await(s, "read data", func(reply actor.Sender[ptero.ReadDataResult]) {
		ptero.ReadData(s.rt.Starter(), pkg, id, reply)
	})
	if err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}
	if c.output == "" {
		_, err = out.Write(res.Data)
		return err
	}
	return os.WriteFile(c.output, res.Data, 0o644)
}

type listCommand struct {
	path string
}

func (c *listCommand) Usage() string { return "list the regions of a package" }

func (c *listCommand) Flags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.path, "package", "p", "", "path of the package")
}

func (c *listCommand) Run(s *session, out io.Writer) error {
	if err := requireFlag("package", c.path); err != nil {
		return err
	}
	pkg, err := s.open(c.path, false)
	if err != nil {
		return err
	}
	defer pkg.Send(ptero.Close{})

	res, err := await(s, "load index", func(reply actor.Sender[ptero.IndexResult]) {
		ptero.LoadIndex(s.rt.Starter(), pkg, reply)
	})
	if err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOFFSET\tSIZE")
	for _, e := range res.Index.Entries() {
		fmt.Fprintf(w, "%s\t%d\t%d\n", e.RegionID, e.Offset, e.Size)
	}
	return w.Flush()
}

type configCommand struct {
	cfg *config.Config
}

func (c *configCommand) Usage() string { return "print the effective configuration" }

func (c *configCommand) Flags(*pflag.FlagSet) {}

func (c *configCommand) Run(_ *session, out io.Writer) error {
	data, err := c.cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
