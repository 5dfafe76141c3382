// indexd keeps an in-memory index of .torrent files, serves it over HTTP
// and accepts commands on standard input.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"dottorrent/pkg/config"
	"dottorrent/pkg/index"
	"dottorrent/pkg/render"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Error("indexd failed")
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flagSet := pflag.NewFlagSet("indexd", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML config file (default: $"+config.EnvVar+")")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(config.Path(configPath))
	if err != nil {
		return err
	}
	if err := cfg.ConfigureLogger(logrus.StandardLogger()); err != nil {
		return err
	}

	ix := index.New(cfg.MaxBodyBytes)
	for _, dir := range cfg.TorrentDirs {
		if _, err := ix.AddDir(dir); err != nil {
			logrus.WithError(err).WithField("directory", dir).Warn("Skipping torrent directory")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- ix.Listen(ctx, cfg.Listen) }()
	go func() {
		// Closing stdin leaves the server running; only "exit" stops it.
		if repl(ix, os.Stdin, os.Stdout) {
			stop()
		}
	}()

	return <-errc
}

// repl reads commands until "exit" or end of input and reports whether
// "exit" was given.
func repl(ix *index.Index, in io.Reader, out io.Writer) bool {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "> ")
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			if err != io.EOF {
				fmt.Fprintln(out, err)
			}
			return false
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case "":
		case "help":
			fmt.Fprintln(out, "Commands:")
			fmt.Fprintln(out, "  help - display this message")
			fmt.Fprintln(out, "  ls - list indexed torrents")
			fmt.Fprintln(out, "  add <path> - index a .torrent file")
			fmt.Fprintln(out, "  show <hash> - display a torrent")
			fmt.Fprintln(out, "  rm <hash> - remove a torrent")
			fmt.Fprintln(out, "  exit - exit the program")
		case "ls":
			entries := ix.List()
			fmt.Fprintf(out, "Torrents (%d):\n", len(entries))
			for _, e := range entries {
				fmt.Fprintf(out, "  %s  %s  %s\n", e.InfoHash, e.Torrent.Filename, humanize.IBytes(e.Torrent.TotalLength()))
			}
		case "add":
			if arg == "" {
				fmt.Fprintln(out, "Usage: add <path>")
				continue
			}
			e, err := ix.Add(arg)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Added %s (%s)\n", e.Torrent.Filename, e.InfoHash)
		case "show":
			e, ok := ix.Get(arg)
			if !ok {
				fmt.Fprintf(out, "No torrent with info hash %q\n", arg)
				continue
			}
			if err := render.Write(out, render.Text, render.NewView(e.Torrent, &e.InfoHash)); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		case "rm":
			if ix.Remove(arg) {
				fmt.Fprintf(out, "Removed %s\n", arg)
			} else {
				fmt.Fprintf(out, "No torrent with info hash %q\n", arg)
			}
		case "exit":
			fmt.Fprintln(out, "Exiting...")
			return true
		default:
			fmt.Fprintln(out, "Unknown command. Type 'help' for a list of commands.")
		}

		if err != nil {
			return false
		}
	}
}
