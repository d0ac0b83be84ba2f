package main

import (
	"os"

	"github.com/hvnguyen/archr/internal/cat"
	"github.com/hvnguyen/archr/internal/ls"
	"github.com/hvnguyen/archr/internal/unpack"
	"github.com/jessevdk/go-flags"
)

var opts struct {
	Ls     ls.Command     `command:"ls" alias:"list" description:"list the entries of an archive"`
	Cat    cat.Command    `command:"cat" description:"print an entry, or a byte range of it, to stdout"`
	Unpack unpack.Command `command:"unpack" alias:"x" description:"extract all entries of an archive to a directory"`
}

func main() {
	p := flags.NewParser(&opts, flags.Default)

	_, err := p.Parse()
	if err != nil && !flags.WroteHelp(err) {
		os.Exit(1)
	}
}
