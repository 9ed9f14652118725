package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tokenlens/modules"
	"tokenlens/pkg/app"
	"tokenlens/pkg/intake"
)

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		file      string
		imagePath string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze promotion text and print a report",
		Long: `Analyzes the given text. With no arguments the text is read from --file,
or from stdin when --file is not set. --image sends an image to the OCR
sidecar (OCR_ENDPOINT) and merges the recognized text with the manual text.

Example:
  tokenlens analyze "Just launched! Anon team, 1000x soon"
  cat pitch.txt | tokenlens analyze --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args, file)
			if err != nil {
				return err
			}

			sub := intake.Submission{ManualText: text}
			if imagePath != "" {
				if sub.Image, err = os.ReadFile(imagePath); err != nil {
					return fmt.Errorf("read image: %w", err)
				}
			}

			tl, err := app.Build(c.cfg, c.logger)
			if err != nil {
				return err
			}

			out, err := tl.Intake.Analyze(cmd.Context(), sub)
			if errors.Is(err, intake.ErrEmptyInput) {
				return fmt.Errorf("%s", out.Status)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(out); encErr != nil {
					return encErr
				}
				return err
			}

			for _, warning := range out.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
			}
			if err != nil {
				fmt.Fprintln(w, out.Status)
			}
			fmt.Fprintln(w, modules.BuildReportReply(out.Report))
			fmt.Fprintln(w)
			questions, _ := modules.RunQuestions()
			fmt.Fprintln(w, questions)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from file")
	cmd.Flags().StringVar(&imagePath, "image", "", "Image to run through OCR")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outcome as JSON")
	return cmd
}

// readInput resolves the text from args, a file or stdin, in that order
func readInput(stdin io.Reader, args []string, file string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
