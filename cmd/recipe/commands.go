package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/recipebox/internal/importer"
	"github.com/dgallion1/recipebox/internal/markup"
	"github.com/dgallion1/recipebox/internal/recipe"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Show the ingredients a recipe parses to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			r := engine.Parse(text)

			out := cmd.OutOrStdout()
			if title := r.Title(); title != "" {
				fmt.Fprintf(out, "Title: %s\n", title)
			}
			fmt.Fprintln(out, ingredientTable(engine, r))
			if raw := rawLines(r); len(raw) > 0 {
				fmt.Fprintf(out, "Unparsed ingredient lines: %d\n", len(raw))
				for _, l := range raw {
					fmt.Fprintf(out, "  %s\n", l)
				}
			}
			fmt.Fprintf(out, "Divisors: %s\n", divisorsText(engine.Divisors(r)))
			return nil
		},
	}
}

func newScaleCommand(ctx *commandContext) *cobra.Command {
	var factorText string
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "scale FILE",
		Short: "Multiply every measured amount by a factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			factor, err := parseFactor(factorText)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			scaled, err := engine.Scale(engine.Parse(text), factor)
			if err != nil {
				return err
			}
			ctx.logger().Debug("scaled recipe", "factor", factor, "ingredients", len(scaled.Ingredients()))
			return writeDocument(cmd, engine.Render(scaled), asHTML)
		},
	}

	cmd.Flags().StringVarP(&factorText, "factor", "f", "", "Scale factor, e.g. 2, 0.5 or 3/4")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Write HTML instead of markdown")
	_ = cmd.MarkFlagRequired("factor")
	return cmd
}

func newDivisorsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "divisors FILE",
		Short: "List the numbers a recipe divides by without rounding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), divisorsText(engine.Divisors(engine.Parse(text))))
			return nil
		},
	}
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Parse and re-serialize a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return writeDocument(cmd, engine.Render(engine.Parse(text)), asHTML)
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Write HTML instead of markdown")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var pdfFallback bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Convert a .txt, .csv, .html, .pdf, .docx or .md recipe to recipe markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, err := importer.ForFile(args[0], importer.Options{PDFFallback: pdfFallback})
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			md, err := imp.Import(f, args[0])
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			ctx.logger().Debug("imported", "file", args[0], "bytes", len(md))

			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), md)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(md+"\n"), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&pdfFallback, "pdftotext", true, "Fall back to pdftotext for unreadable PDFs")
	return cmd
}

// parseFactor accepts decimals ("1.5") and fractions ("3/4").
func parseFactor(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, fmt.Errorf("%w: %q", recipe.ErrInvalidFactor, s)
		}
		return n / d, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", recipe.ErrInvalidFactor, s)
	}
	return f, nil
}

func writeDocument(cmd *cobra.Command, md string, asHTML bool) error {
	out := cmd.OutOrStdout()
	if !asHTML {
		fmt.Fprintln(out, md)
		return nil
	}
	html, err := markup.HTML(md)
	if err != nil {
		return err
	}
	fmt.Fprint(out, html)
	return nil
}

func divisorsText(divs []int) string {
	if len(divs) == 0 {
		return "none"
	}
	return joinInts(divs)
}

func rawLines(r recipe.Recipe) []string {
	var out []string
	for _, s := range r.Sections {
		for _, l := range s.Lines {
			if l.Kind == recipe.RawLine {
				out = append(out, l.Text)
			}
		}
	}
	return out
}
