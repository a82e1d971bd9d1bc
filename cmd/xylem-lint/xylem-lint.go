package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lestrrat-go/xylem"
	"github.com/lestrrat-go/xylem/internal/cliutil"
)

type cmdopts struct {
	Format   bool `long:"format"`
	NoBlanks bool `long:"noblanks"`
	Version  bool `long:"version"`
}

func main() {
	os.Exit(_main())
}

func showVersion() {
	fmt.Printf("xylem-lint: using xylem version %s\n", xylem.Version)
}

func showUsage() {
	fmt.Printf(`Usage : xylem-lint [options] XMLfiles ...
	Parse the XML files and output the result of the parsing
	--format : reformat and reindent the output
	--noblanks : drop whitespace-only character data
	--version : display the version of the XML library used
`)
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		showUsage()
		return 1
	}

	if opts.Version {
		showVersion()
		return 0
	}

	inputCh := make(chan io.Reader)
	errCh := make(chan error)
	switch {
	case len(args) > 0: // filename present
		go func() {
			defer close(inputCh)
			for _, f := range args {
				fh, err := os.Open(f)
				if err != nil {
					errCh <- err
					return
				}
				inputCh <- fh
			}
		}()
	case !cliutil.IsTty(os.Stdin):
		go func() {
			defer close(inputCh)
			inputCh <- os.Stdin
		}()
	default:
		showUsage()
		return 1
	}

	p := xylem.NewParser()
	for in := range inputCh {
		buf, err := io.ReadAll(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		doc, err := p.Parse(buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		if c, ok := in.(io.Closer); ok && c != os.Stdin {
			c.Close()
		}

		if opts.NoBlanks {
			dropBlanks(doc.Root)
		}

		d := xylem.NewDumper()
		if opts.Format {
			err = d.DisplayDocument(os.Stdout, doc)
		} else {
			err = d.WriteDocument(os.Stdout, doc)
			if err == nil {
				_, err = fmt.Println()
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
	}

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "%s", err)
		return 1
	default:
	}

	return 0
}

func dropBlanks(e *xylem.Element) {
	if e == nil {
		return
	}
	kept := e.Children[:0]
	for _, c := range e.Children {
		if t, ok := c.(*xylem.Text); ok && t.IsWhitespace() {
			continue
		}
		if child, ok := c.(*xylem.Element); ok {
			dropBlanks(child)
		}
		kept = append(kept, c)
	}
	e.Children = kept
}
