package unpack

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/hvnguyen/archr/internal"
	"github.com/jessevdk/go-flags"
	"github.com/schollz/progressbar/v3"
)

type Command struct {
	Password string `short:"p" long:"password" description:"password for encrypted archives"`
	Dir      string `short:"d" long:"dir" description:"output directory" default:"."`
	Args     struct {
		File string `positional-arg-name:"file" description:"the archive to unpack; either a local file or an s3://bucket/key URI" required:"yes"`
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

	// -1 renders the bar as a spinner when any entry's length is unknown.
	var total int64
	for _, e := range entries {
		n, ok := e.Length()
		if !ok {
			total = -1
			break
		}
		total += n
	}

	bar := progressbar.DefaultBytes(total, fmt.Sprintf(`unpacking "%s"`, filepath.Base(c.Args.File)))
	defer bar.Close()

	for _, e := range entries {
		// entry paths come straight from the container; keep them inside dir.
		name := filepath.Join(c.Dir, filepath.FromSlash(e.Path()))
		if rel, err := filepath.Rel(c.Dir, name); err != nil || strings.HasPrefix(rel, "..") {
			log.Printf(`skipping entry "%s": escapes output directory`, e.Path())
			continue
		}

		data, err := e.Read(ctx, nil)
		if err != nil {
			return err
		}

		if err = os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return fmt.Errorf("create output directory error: %w", err)
		}

		if err = os.WriteFile(name, data, 0666); err != nil {
			return fmt.Errorf(`write file "%s" error: %w`, name, err)
		}

		_ = bar.Add(len(data))
	}

	return nil
}

var _ flags.Commander = &Command{}
