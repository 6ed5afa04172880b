package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/Anon10214/cypherc/scheduler"
	"github.com/Masterminds/sprig/v3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var outputFormat string
var outputTemplate string
var outputWidth int

// A compiled document as it gets written by the build command
type buildOutput struct {
	Document string         `yaml:"document"`
	Text     string         `yaml:"text"`
	Params   map[string]any `yaml:"params"`
}

var buildCmd = &cobra.Command{
	Use:   "build document...",
	Short: "Compile query documents",
	Long: `Compile the passed query documents and print the resulting queries and their parameters.

Directories get searched for .yml and .yaml documents.
The naming is read from the target config if it exists and can be overridden with the naming flags.

Valid outputs are:
    text  (default) - The query text followed by a table of its parameters
    yaml            - A list of documents, query texts and parameters

Alternatively, a text/template with sprig functions can be passed using --format,
which gets executed for every document with the fields .Document, .Text and .Params.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		naming, err := baseNaming(targetConfigPath)
		if err != nil {
			logrus.Errorf("Failed to read naming - %v", err)
			os.Exit(1)
		}
		if naming, err = applyNamingFlags(cmd.Flags(), naming); err != nil {
			logrus.Errorf("Invalid naming - %v", err)
			os.Exit(1)
		}

		var tmpl *template.Template
		if outputTemplate != "" {
			if tmpl, err = template.New("format").Funcs(sprig.FuncMap()).Parse(outputTemplate); err != nil {
				logrus.Errorf("Failed to parse format - %v", err)
				os.Exit(1)
			}
		}

		docs, err := loadDocuments(args)
		if err != nil {
			logrus.Errorf("Failed to load documents - %v", err)
			os.Exit(1)
		}

		builds, err := scheduler.BuildAll(context.Background(), scheduler.Config{Naming: naming, Concurrency: concurrency}, docs)
		if err != nil {
			logrus.Errorf("Failed to compile documents - %v", err)
			os.Exit(1)
		}

		outputs := make([]buildOutput, len(docs))
		for i, doc := range docs {
			outputs[i] = buildOutput{Document: doc.Name, Text: builds[i][0].Text, Params: builds[i][0].Params}
		}

		if err := writeBuilds(os.Stdout, outputs, outputFormat, tmpl, outputWidth); err != nil {
			logrus.Errorf("Failed to write output - %v", err)
			os.Exit(1)
		}
	},
}

// writeBuilds writes the outputs in the passed format, or using the template if it isn't nil
func writeBuilds(w io.Writer, outputs []buildOutput, format string, tmpl *template.Template, width int) error {
	if tmpl != nil {
		for _, output := range outputs {
			if err := tmpl.Execute(w, output); err != nil {
				return err
			}
		}
		return nil
	}

	switch format {
	case "text":
		for i, output := range outputs {
			if i != 0 {
				fmt.Fprintln(w)
			}
			writeText(w, output, width)
		}
		return nil
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(outputs); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("invalid output %q", format)
}

func writeText(w io.Writer, output buildOutput, width int) {
	text := output.Text
	if width > 0 {
		text = wordwrap.String(text, width)
	}
	fmt.Fprintf(w, "── %s ──\n\n%s\n", output.Document, indent.String(text, 2))

	if len(output.Params) == 0 {
		return
	}
	fmt.Fprintln(w)
	t := scheduler.ParamsTable(output.Params)
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.Render()
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "The output { text | yaml }")
	buildCmd.Flags().StringVarP(&outputTemplate, "format", "f", "", "Format every compiled document using a template, overrides --output")
	buildCmd.Flags().IntVarP(&outputWidth, "width", "w", 100, "Wrap query texts at the given width in the text output, 0 to disable wrapping")
}
