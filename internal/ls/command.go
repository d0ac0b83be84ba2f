package ls

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hvnguyen/archr/internal"
	"github.com/jessevdk/go-flags"
)

type Command struct {
	Password string `short:"p" long:"password" description:"password for encrypted archives"`
	Bytes    bool   `short:"b" long:"bytes" description:"print exact byte counts instead of human-friendly sizes"`
	Args     struct {
		File string `positional-arg-name:"file" description:"the archive to list; either a local file or an s3://bucket/key URI" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	a, err := internal.OpenArchive(ctx, c.Args.File, c.Password)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.Entries()
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%12s  %12s  %s\n", c.size(e.Length()), c.size(e.CompressedLength()), e.Path())
	}

	return nil
}

func (c *Command) size(n int64, ok bool) string {
	if !ok {
		return "-"
	}

	if c.Bytes {
		return fmt.Sprintf("%d", n)
	}

	return humanize.IBytes(uint64(n))
}

var _ flags.Commander = &Command{}
