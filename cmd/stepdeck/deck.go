package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/content"
	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

func newOutlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline [deck]",
		Short: "Print the slides of a deck",
		Long: `Print one line per slide: position, id, title and subtitle.

Example:
  stepdeck outline
  stepdeck outline talk.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := quickLogger(cmd, "outline")
			decks := newDeckService(entities.WatcherConfig{}, logger)

			deck, err := decks.LoadDeck(cmd.Context(), deckArg(args))
			if err != nil {
				return err
			}
			return writeOutline(cmd.OutOrStdout(), deck)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <deck>",
		Short: "Check that a deck file parses and is valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := quickLogger(cmd, "validate")
			decks := newDeckService(entities.WatcherConfig{}, logger)

			deck, err := decks.LoadDeck(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %q, %d slides\n", args[0], deck.Title, deck.SlideCount())
			return nil
		},
	}
}

func newExportDefaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-default <file>",
		Short: "Write the built-in deck to a file for editing",
		Long: `Write the built-in portfolio deck to a YAML file. The copy can be
edited and presented with "stepdeck serve <file>".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if err := exportDefault(args[0], force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote the built-in deck to %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	return cmd
}

func init() {
	rootCmd.AddCommand(newOutlineCmd(), newValidateCmd(), newExportDefaultCmd())
}

// writeOutline prints "n. [id] title - subtitle" per slide
func writeOutline(w io.Writer, deck *entities.Deck) error {
	if _, err := fmt.Fprintf(w, "%s\n", deck.Title); err != nil {
		return err
	}

	for i := range deck.Slides {
		slide := &deck.Slides[i]
		line := fmt.Sprintf("%d. [%s] %s", i+1, slide.ID, slide.DisplayTitle())
		if slide.Subtitle != "" {
			line += " - " + slide.Subtitle
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// exportDefault writes the embedded deck to path
func exportDefault(path string, force bool) error {
	name, data := content.NewSource().DefaultDeck()

	want := filepath.Ext(name)
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("the built-in deck is YAML, use a %s or .yml file name", want)
	}

	if err := prepareOutput(path, force); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// prepareOutput refuses to clobber path unless force is set and creates its
// parent directory
func prepareOutput(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
