// torrentinfo prints the contents of .torrent files.
//
// Usage: torrentinfo [--format text|json|yaml] [--verbose] FILE...
//
// A FILE of "-" reads standard input. The exit status is 1 when any file
// fails to decode.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"dottorrent/pkg/render"
	"dottorrent/pkg/sha1hash"
	"dottorrent/pkg/torrent"
)

var errSomeFailed = errors.New("some files could not be decoded")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if err != errSomeFailed {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var formatName string
	var verbose bool

	flagSet := pflag.NewFlagSet("torrentinfo", pflag.ContinueOnError)
	flagSet.StringVarP(&formatName, "format", "f", string(render.Text), "output format: text, json or yaml")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log decoding steps to stderr")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	files := flagSet.Args()
	if len(files) == 0 {
		return errors.New("no torrent files given")
	}

	failed := false
	for _, file := range files {
		fmt.Fprintf(stdout, "## %s\n\n", file)
		if err := show(stdout, format, file, stdin); err != nil {
			fmt.Fprintf(stdout, "Error: %v\n", err)
			failed = true
		}
		fmt.Fprintln(stdout)
	}

	if failed {
		return errSomeFailed
	}
	return nil
}

// show decodes one file and writes its view.
func show(w io.Writer, format render.Format, file string, stdin io.Reader) error {
	t, raw, err := load(file, stdin)
	if err != nil {
		return err
	}

	var infoHash *sha1hash.Hash
	if h, err := torrent.HashInfo(raw); err == nil {
		infoHash = &h
	} else {
		logrus.WithError(err).WithField("path", file).Debug("No info hash")
	}

	return render.Write(w, format, render.NewView(t, infoHash))
}

// load decodes file, or stdin for "-", and returns the raw bytes as well.
func load(file string, stdin io.Reader) (*torrent.Torrent, []byte, error) {
	var raw bytes.Buffer

	if file == "-" {
		t, err := torrent.DecodeReader(io.TeeReader(stdin, &raw))
		return t, raw.Bytes(), err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, nil, &torrent.LoadError{Kind: torrent.KindIO, Path: file, Err: errors.Wrap(err, "open torrent file")}
	}
	defer f.Close()

	t, err := torrent.DecodeReader(io.TeeReader(f, &raw))
	if err != nil {
		var le *torrent.LoadError
		if errors.As(err, &le) {
			le.Path = file
		}
		return nil, nil, err
	}
	return t, raw.Bytes(), nil
}
