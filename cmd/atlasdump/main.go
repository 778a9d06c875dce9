// Package main provides a command-line tool that extracts sprite images
// from a sprite atlas bundle into individual PNG files.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tanukisoft/unitypack/pkg/bundle"
)

var (
	listOnly   bool
	spriteName string
)

func init() {
	flag.BoolVar(&listOnly, "list", false, "Only list sprite names, do not write images")
	flag.StringVar(&spriteName, "sprite", "", "Extract a single sprite by name")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	flag.Parse()

	if flag.NArg() < 1 || (!listOnly && flag.NArg() < 2) {
		fmt.Println("Usage: atlasdump [options] <bundle> [output_dir]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run(bundlePath, outputDir string) error {
	data, err := os.ReadFile(bundlePath)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	ab, err := bundle.ParseAtlas(data)
	if err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}
	atlas, err := ab.ExtractAtlas()
	if err != nil {
		return fmt.Errorf("extract atlas: %w", err)
	}

	names := atlas.SpriteNames()
	sort.Strings(names)
	if spriteName != "" {
		names = []string{spriteName}
	}

	if listOnly {
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, name := range names {
		img, ok := atlas.Sprite(name)
		if !ok {
			return fmt.Errorf("sprite %q not found in atlas", name)
		}
		out := filepath.Join(outputDir, name+".png")
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", out, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info().Str("sprite", name).Str("output", out).Msg("wrote sprite")
	}
	log.Info().Int("sprites", len(names)).Msg("done")
	return nil
}
