package cat

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/hvnguyen/archr"
	"github.com/hvnguyen/archr/internal"
	"github.com/jessevdk/go-flags"
)

type Command struct {
	Password string `short:"p" long:"password" description:"password for encrypted archives"`
	Range    string `short:"r" long:"range" description:"half-open byte range over the decompressed content, e.g. 100-200; omit to print the whole entry"`
	Args     struct {
		File  string `positional-arg-name:"file" description:"the archive; either a local file or an s3://bucket/key URI" required:"yes"`
		Entry string `positional-arg-name:"entry" description:"the entry path inside the archive" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	var r *archr.Range
	if c.Range != "" {
		var err error
		if r, err = parseRange(c.Range); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	a, err := internal.OpenArchive(ctx, c.Args.File, c.Password)
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := a.Entry(c.Args.Entry)
	if err != nil {
		return err
	}

	data, err := e.Read(ctx, r)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)
	return err
}

func parseRange(s string) (*archr.Range, error) {
	values := strings.SplitN(s, "-", 2)
	if len(values) != 2 {
		return nil, fmt.Errorf(`invalid range "%s"; expected start-end`, s)
	}

	start, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf(`invalid start in range "%s": %w`, s, err)
	}

	end, err := strconv.ParseInt(values[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf(`invalid end in range "%s": %w`, s, err)
	}

	return archr.NewRange(start, end)
}

var _ flags.Commander = &Command{}
