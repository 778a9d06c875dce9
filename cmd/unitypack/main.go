// Package main provides a command-line tool for inspecting and editing
// UnityFS resource bundles.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tanukisoft/unitypack/pkg/asset"
	"github.com/tanukisoft/unitypack/pkg/bundle"
)

var (
	mode        string
	inputPath   string
	outputPath  string
	textPath    string
	compression string
	newCAB      string
)

func init() {
	flag.StringVar(&mode, "mode", "", "Operation mode: list, dump, extract-text, replace-text, repack")
	flag.StringVar(&inputPath, "input", "", "Path to the bundle to read")
	flag.StringVar(&outputPath, "output", "", "Output path (bundle or extracted text)")
	flag.StringVar(&textPath, "text", "", "Replacement payload for replace-text mode")
	flag.StringVar(&compression, "compression", "none", "Block compression for written bundles: none, lz4")
	flag.StringVar(&newCAB, "rename-cab", "", "Rename the content archive before writing")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	flag.Parse()

	if err := run(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run() error {
	if err := validateFlags(); err != nil {
		flag.Usage()
		return err
	}

	switch mode {
	case "list":
		return runList()
	case "dump":
		return runDump()
	case "extract-text":
		return runExtractText()
	case "replace-text":
		return runReplaceText()
	case "repack":
		return runRepack()
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func validateFlags() error {
	if mode == "" {
		return fmt.Errorf("mode is required")
	}
	if inputPath == "" {
		return fmt.Errorf("input bundle is required")
	}

	switch mode {
	case "list", "dump":
	case "extract-text":
		if outputPath == "" {
			return fmt.Errorf("extract-text mode requires -output")
		}
	case "replace-text":
		if textPath == "" || outputPath == "" {
			return fmt.Errorf("replace-text mode requires -text and -output")
		}
	case "repack":
		if outputPath == "" {
			return fmt.Errorf("repack mode requires -output")
		}
	default:
		return fmt.Errorf("mode must be one of: list, dump, extract-text, replace-text, repack")
	}

	return nil
}

func compressionKind() (bundle.Compression, error) {
	switch compression {
	case "none":
		return bundle.CompressionNone, nil
	case "lz4":
		return bundle.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (use none or lz4)", compression)
	}
}

func loadBundle() (*bundle.Bundle, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	b, err := bundle.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	return b, nil
}

func runList() error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	paths, err := bundle.ListFiles(data)
	if err != nil {
		return fmt.Errorf("list bundle: %w", err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func runDump() error {
	b, err := loadBundle()
	if err != nil {
		return err
	}
	for _, entry := range b.Files() {
		if entry.Assets == nil {
			log.Info().Str("path", entry.Path).Int("size", len(entry.Raw)).Msg("raw entry")
			continue
		}
		file := entry.Assets
		log.Info().
			Str("path", entry.Path).
			Str("unity_version", file.Header.UnityVersion).
			Int("types", len(file.Types)).
			Int("objects", len(file.Assets)).
			Msg("asset file")
		for i, a := range file.Assets {
			event := log.Info().Uint64("path_id", file.PathID(i))
			if unparsed, ok := a.(*asset.Unparsed); ok {
				event.Str("type_hash", unparsed.TypeHash().String()).
					Int("size", len(unparsed.Data)).
					Msg("unparsed object")
				continue
			}
			event.Str("type", fmt.Sprintf("%T", a)).Msg("object")
		}
	}
	return nil
}

func runExtractText() error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	tb, err := bundle.ParseText(data)
	if err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}
	name, err := tb.AssetName()
	if err != nil {
		return err
	}
	raw, err := tb.Raw()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, raw, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("asset", name).Int("bytes", len(raw)).Str("output", outputPath).Msg("extracted text asset")
	return nil
}

func runReplaceText() error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	tb, err := bundle.ParseText(data)
	if err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}
	replacement, err := os.ReadFile(textPath)
	if err != nil {
		return fmt.Errorf("read replacement text: %w", err)
	}
	if err := tb.ReplaceRaw(replacement); err != nil {
		return err
	}
	return writeBundle(tb.Bundle)
}

func runRepack() error {
	b, err := loadBundle()
	if err != nil {
		return err
	}
	return writeBundle(b)
}

func writeBundle(b *bundle.Bundle) error {
	if newCAB != "" {
		if err := b.RenameCAB(newCAB); err != nil {
			return err
		}
	}
	kind, err := compressionKind()
	if err != nil {
		return err
	}
	out, err := b.SerializeCompressed(kind)
	if err != nil {
		return fmt.Errorf("serialize bundle: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Int("bytes", len(out)).Str("compression", kind.String()).Str("output", outputPath).Msg("wrote bundle")
	return nil
}
