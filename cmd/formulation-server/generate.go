package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ehr/formulation/internal/config"
	"github.com/ehr/formulation/internal/domain/criteria"
	"github.com/ehr/formulation/internal/domain/narrative"
)

const (
	formatText   = "text"
	formatPlain  = "plain"
	formatJSON   = "json"
	formatRender = "render"
)

// selectionFile is the YAML shape accepted by generate --file.
type selectionFile struct {
	Disorder  string             `yaml:"disorder"`
	Selection criteria.Selection `yaml:"selection"`
}

// cliService loads config and builds a service for the one-shot commands.
// Logs go to stderr so stdout carries only command output.
func cliService(cmd *cobra.Command) (*narrative.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := cliPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if pool != nil {
			pool.Close()
		}
	}
	svc, err := newService(ctx, cfg, pool, logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}

// cliPool connects only when the catalog is read from Postgres.
func cliPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if !cfg.CatalogFromDB {
		return nil, nil
	}
	return openPool(ctx, cfg)
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the formulation for a selection of criteria",
		Long: "Render the formulation for a selection of criteria.\n\n" +
			"Items are given as PREFIX=text, where text is the catalog wording or #N for the\n" +
			"Nth item (1-based) of that section. A YAML --file may carry the disorder and a\n" +
			"selection list of {text, section} items.",
		RunE: func(cmd *cobra.Command, args []string) error {
			disorder, _ := cmd.Flags().GetString("disorder")
			file, _ := cmd.Flags().GetString("file")
			items, _ := cmd.Flags().GetStringArray("item")
			format, _ := cmd.Flags().GetString("format")

			var sel criteria.Selection
			if file != "" {
				doc, err := readSelectionFile(file)
				if err != nil {
					return err
				}
				if disorder == "" {
					disorder = doc.Disorder
				}
				sel = append(sel, doc.Selection...)
			}
			if disorder == "" {
				return fmt.Errorf("--disorder is required")
			}

			svc, closeFn, err := cliService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			entry, err := svc.Catalog().Get(disorder)
			if err != nil {
				return err
			}
			parsed, err := parseItems(entry, items)
			if err != nil {
				return err
			}
			sel = append(sel, parsed...)

			res, err := svc.Generate(cmd.Context(), disorder, sel)
			if err != nil {
				return err
			}
			if res.Dropped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d item(s) with unrecognized sections were ignored\n", res.Dropped)
			}
			return writeResult(cmd.OutOrStdout(), res, format)
		},
	}
	cmd.Flags().String("disorder", "", "Catalog key of the disorder (e.g. GAD)")
	cmd.Flags().String("file", "", "YAML file with a selection")
	cmd.Flags().StringArray("item", nil, "Selected item as PREFIX=text or PREFIX=#N (repeatable)")
	cmd.Flags().String("format", formatText, "Output format: text, plain, json or render")
	return cmd
}

func readSelectionFile(path string) (*selectionFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open selection file: %w", err)
	}
	defer f.Close()

	var doc selectionFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode selection file %s: %w", path, err)
	}
	return &doc, nil
}

// parseItems turns PREFIX=text flags into items. A #N text picks the Nth item
// of the named section; any other text is passed through unchanged so that
// unknown sections are dropped by the generator as usual.
func parseItems(entry *criteria.Entry, raw []string) (criteria.Selection, error) {
	sel := make(criteria.Selection, 0, len(raw))
	for _, r := range raw {
		prefix, text, ok := strings.Cut(r, "=")
		prefix = strings.TrimSpace(prefix)
		text = strings.TrimSpace(text)
		if !ok || prefix == "" || text == "" {
			return nil, fmt.Errorf("invalid --item %q: want PREFIX=text", r)
		}
		if strings.HasPrefix(text, "#") {
			n, err := strconv.Atoi(text[1:])
			if err != nil {
				return nil, fmt.Errorf("invalid --item %q: %s is not an item number", r, text)
			}
			section, found := entry.Section(prefix)
			if !found {
				return nil, fmt.Errorf("invalid --item %q: %s has no section %s", r, entry.Key, prefix)
			}
			if n < 1 || n > len(section.Items) {
				return nil, fmt.Errorf("invalid --item %q: section %s has %d items", r, prefix, len(section.Items))
			}
			text = section.Items[n-1]
		}
		sel = append(sel, criteria.Item{Text: text, Section: prefix})
	}
	return sel, nil
}

func writeResult(w io.Writer, res *narrative.Result, format string) error {
	switch format {
	case formatText, "":
		_, err := fmt.Fprintln(w, res.Text)
		return err
	case formatPlain:
		_, err := fmt.Fprintln(w, narrative.StripMarkup(res.Text))
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case formatRender:
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}
		out, err := renderer.Render(res.Text)
		if err != nil {
			return fmt.Errorf("render formulation: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown --format %q: want text, plain, json or render", format)
	}
}

func disordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disorders",
		Short: "List catalog disorders",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := cliService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tSECTIONS")
			for _, s := range svc.ListDisorders() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, s.Name, strings.Join(s.Prefixes, ","))
			}
			return tw.Flush()
		},
	}
}

func sectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections KEY",
		Short: "Show the criteria sections of a disorder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := cliService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			sections, err := svc.ListSections(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range sections {
				fmt.Fprintf(out, "[%s] %s\n", s.Prefix, s.Title)
				for i, item := range s.Items {
					fmt.Fprintf(out, "  #%d %s\n", i+1, item)
				}
			}
			return nil
		},
	}
}
