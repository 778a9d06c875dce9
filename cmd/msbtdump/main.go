// Package main provides a command-line tool that dumps the message archive
// carried inside a text bundle, one label and message per entry.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tanukisoft/unitypack/pkg/bundle"
)

var (
	labelsOnly bool
	label      string
)

func init() {
	flag.BoolVar(&labelsOnly, "labels", false, "Only print message labels")
	flag.StringVar(&label, "label", "", "Print a single message by label")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: msbtdump [options] <bundle>")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run(bundlePath string) error {
	data, err := os.ReadFile(bundlePath)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	mb, err := bundle.ParseMessages(data)
	if err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}

	if label != "" {
		msg := mb.Messages.Get(label)
		if msg == nil {
			return fmt.Errorf("no message with label %q", label)
		}
		fmt.Println(printable(msg.String()))
		return nil
	}

	for i := range mb.Messages.Messages {
		msg := &mb.Messages.Messages[i]
		if labelsOnly {
			fmt.Println(msg.Label)
			continue
		}
		fmt.Printf("%s\t%s\n", msg.Label, printable(msg.String()))
	}
	return nil
}

// printable makes embedded control sequences visible instead of corrupting
// terminal output.
func printable(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
