package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/export"
	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/services"
)

func newThumbnailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thumbnail [deck]",
		Short: "Draw a title card for a recording of the deck",
		Long: `Draw a 1280x720 SVG title card from the deck title and description.
Without --output the SVG is written to stdout.

Example:
  stepdeck thumbnail -o thumbnail.svg
  stepdeck thumbnail talk.md --subtitle "Part 2" --background "#0f172a"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := quickLogger(cmd, "thumbnail")
			decks := newDeckService(entities.WatcherConfig{}, logger)

			deck, err := decks.LoadDeck(cmd.Context(), deckArg(args))
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			title, subtitle := deck.Title, deck.Description
			if flags.Changed("title") {
				title, _ = flags.GetString("title")
			}
			if flags.Changed("subtitle") {
				subtitle, _ = flags.GetString("subtitle")
			}

			card := renderer.NewTitleCard()
			card.Background, _ = flags.GetString("background")

			var buf bytes.Buffer
			if err := card.Render(&buf, title, subtitle); err != nil {
				return err
			}

			output, _ := flags.GetString("output")
			force, _ := flags.GetBool("force")
			return emit(cmd, output, force, buf.Bytes(), "title card")
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write the SVG to this file instead of stdout")
	cmd.Flags().String("title", "", "Title text (default: deck title)")
	cmd.Flags().String("subtitle", "", "Subtitle text (default: deck description)")
	cmd.Flags().String("background", "#1e1e1e", "Background color as #rgb or #rrggbb")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	return cmd
}

func newMetadataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata [deck]",
		Short: "Write upload metadata for a recording of the deck",
		Long: `Write video metadata for a recorded run through the deck: title,
description with one chapter per slide, tags and category. Chapters start
every --slide-seconds unless --duration overrides a slide.

Without --output the JSON is written to stdout; an output file ending in
.yaml or .yml is written as YAML.

Example:
  stepdeck metadata --slide-seconds 90
  stepdeck metadata talk.md -o upload/talk.json --sibling --tag portfolio
  stepdeck metadata --duration intro=30s --link "Source=https://example.com/repo"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := quickLogger(cmd, "metadata")
			decks := newDeckService(entities.WatcherConfig{}, logger)

			deck, err := decks.LoadDeck(cmd.Context(), deckArg(args))
			if err != nil {
				return err
			}

			opts, err := metadataOptions(cmd)
			if err != nil {
				return err
			}

			meta, err := services.BuildMetadata(deck, opts)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			output, _ := flags.GetString("output")
			if output == "" {
				format, _ := flags.GetString("format")
				return export.WriteMetadata(cmd.OutOrStdout(), meta, entities.MetadataFormat(format))
			}

			force, _ := flags.GetBool("force")
			sibling, _ := flags.GetBool("sibling")
			if err := prepareOutput(output, force); err != nil {
				return err
			}
			if sibling {
				if err := prepareOutput(export.SiblingPath(output), force); err != nil {
					return err
				}
			}
			files, err := export.SaveMetadata(output, meta, sibling)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote metadata to %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write to this file (.json, .yaml or .yml) instead of stdout")
	cmd.Flags().String("format", "json", "Format for stdout: json or yaml")
	cmd.Flags().Int("slide-seconds", 60, "Seconds each slide is on screen")
	cmd.Flags().StringArray("duration", nil, "Per-slide time as id=duration, e.g. intro=45s (repeatable)")
	cmd.Flags().StringSlice("tag", nil, "Extra tag (repeatable)")
	cmd.Flags().String("category", "Education", "Video category")
	cmd.Flags().StringArray("link", nil, "Resource link as label=url (repeatable)")
	cmd.Flags().Bool("sibling", false, "Also write the other format next to --output")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	return cmd
}

func init() {
	rootCmd.AddCommand(newThumbnailCmd(), newMetadataCmd())
}

// metadataOptions reads the metadata command flags
func metadataOptions(cmd *cobra.Command) (services.MetadataOptions, error) {
	flags := cmd.Flags()

	seconds, _ := flags.GetInt("slide-seconds")
	if seconds <= 0 {
		return services.MetadataOptions{}, fmt.Errorf("--slide-seconds must be positive, got %d", seconds)
	}

	opts := services.MetadataOptions{SlideDuration: time.Duration(seconds) * time.Second}
	opts.Tags, _ = flags.GetStringSlice("tag")
	opts.Category, _ = flags.GetString("category")

	durations, _ := flags.GetStringArray("duration")
	for _, raw := range durations {
		id, value, err := splitPair(raw, "--duration")
		if err != nil {
			return opts, err
		}
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return opts, fmt.Errorf("--duration %q: want a positive duration such as 45s or 2m", raw)
		}
		if opts.Durations == nil {
			opts.Durations = make(map[string]time.Duration)
		}
		opts.Durations[id] = d
	}

	links, _ := flags.GetStringArray("link")
	for _, raw := range links {
		label, url, err := splitPair(raw, "--link")
		if err != nil {
			return opts, err
		}
		opts.Links = append(opts.Links, entities.Link{Label: label, URL: url})
	}

	return opts, nil
}

// splitPair splits "key=value", both sides required
func splitPair(raw, flag string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return "", "", fmt.Errorf("%s %q: want key=value", flag, raw)
	}
	return key, value, nil
}

// emit writes data to stdout, or to path when set
func emit(cmd *cobra.Command, path string, force bool, data []byte, what string) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := prepareOutput(path, force); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s\n", what, path)
	return nil
}
