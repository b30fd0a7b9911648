package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/remindr/internal/model"
	"github.com/dmitrymomot/remindr/internal/render"
)

func newPreviewCmd() *cobra.Command {
	var (
		format   string
		email    string
		markdown bool
		vars     map[string]string
	)

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Render a template file (.md, .yaml, .json) with sample data",
		Long: `Render a template file with the sample variables used by the preview API.

Markdown files may start with a YAML frontmatter block carrying id, name and
subject; the rest is the legacy text body. YAML and JSON files hold a full
template record. Use "-" to read JSON from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := readTemplate(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			sample := render.SampleVariables(time.Now(), email)
			for k, v := range vars {
				if !model.IsReserved(k) {
					sample[k] = v
				}
			}

			warn := cmd.ErrOrStderr()
			reportProblems(warn, &tpl, model.AllowedVariables(vars))

			var opts []render.Option
			if markdown {
				opts = append(opts, render.WithLegacyMarkdown())
			}
			msg, err := render.NewResolver(opts...).Resolve(&tpl, sample)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "html":
				_, err = fmt.Fprintln(out, msg.Body)
			case "text":
				_, err = fmt.Fprintf(out, "Subject: %s\n\n%s\n", msg.Subject, msg.Text)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				err = enc.Encode(msg)
			default:
				err = fmt.Errorf("unknown format %q (html, text, json)", format)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "html", "output format: html, text or json")
	cmd.Flags().StringVar(&email, "email", "", "recipient address used for {{email}}")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "format legacy text bodies as markdown")
	cmd.Flags().StringToStringVar(&vars, "var", nil, "extra custom variables (key=value)")
	return cmd
}

func readTemplate(path string, stdin io.Reader) (model.Template, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.Template{}, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
		return render.ParseMarkdownTemplate(data)
	case ".yaml", ".yml":
		var rec model.Record
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return model.Template{}, fmt.Errorf("parse %s: %w", path, err)
		}
		return rec.Template(), nil
	default:
		var tpl model.Template
		if err := json.Unmarshal(data, &tpl); err != nil {
			return model.Template{}, fmt.Errorf("parse %s: %w", path, err)
		}
		return tpl, nil
	}
}

// reportProblems prints validation findings without failing the preview.
func reportProblems(w io.Writer, tpl *model.Template, allowed []string) {
	var errs []error
	if err := tpl.Validate(); err != nil {
		errs = append(errs, err)
	}

	texts := []string{tpl.Subject}
	switch c := tpl.Content.(type) {
	case model.TextContent:
		texts = append(texts, c.Body)
	case model.HTMLContent:
		texts = append(texts, c.HTML)
	case model.BlockContent:
		if err := render.ValidateBlocks(c.Blocks); err != nil {
			errs = append(errs, err)
		}
		for _, b := range c.Blocks {
			texts = append(texts, b.Content, b.Label, b.URL, b.ImageURL, b.LinkURL, b.AltText)
		}
	}
	if err := render.ValidateVariables(strings.Join(texts, "\n"), allowed); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}
