package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/Lessona/internal/core/ingestion_engine"
	"github.com/markdave123-py/Lessona/internal/models"
)

func optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the taxonomy, qualification and duration choices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), models.AllOptions())
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <outline>",
		Short: "Extract and store the topic map of a PDF, DOCX or text outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			name := filepath.Base(args[0])
			m, err := a.TopicMaps.ProcessOutline(cmd.Context(), name, data, ingestion_engine.ContentTypeFor(name))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
}

func composeCmd() *cobra.Command {
	var (
		subject, topic, focus             string
		taxonomy, qualification, duration string
		topicMapID, out                   string
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Generate and store a lesson plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tax, ok := models.ParseTaxonomyLevel(taxonomy)
			if !ok {
				return fmt.Errorf("--taxonomy %q: expected one of %s", taxonomy, joinValues(models.AllTaxonomyLevels()))
			}
			aqf, ok := models.ParseQualificationLevel(qualification)
			if !ok {
				return fmt.Errorf("--qualification %q: expected a level from 1 to 10", qualification)
			}
			dur, ok := models.ParseDuration(duration)
			if !ok {
				return fmt.Errorf("--duration %q: expected one of %s", duration, joinValues(models.AllDurations()))
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			req := models.LessonPlanRequest{
				SubjectName:        subject,
				Topic:              topic,
				FocusTopic:         focus,
				TaxonomyLevel:      tax,
				QualificationLevel: aqf,
				Duration:           dur,
			}
			plan, err := a.LessonPlans.Generate(cmd.Context(), req, topicMapID)
			if err != nil {
				return err
			}
			if out != "" {
				pdf, _, err := a.LessonPlans.Download(cmd.Context(), plan.ID)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, pdf, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			}
			return printJSON(cmd.OutOrStdout(), plan)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject name")
	cmd.Flags().StringVar(&topic, "topic", "", "lecture topic")
	cmd.Flags().StringVar(&focus, "focus", "", "focus topic (optional)")
	cmd.Flags().StringVar(&taxonomy, "taxonomy", "Understand", "Bloom's taxonomy level")
	cmd.Flags().StringVar(&qualification, "qualification", "7", "AQF level, number or full label")
	cmd.Flags().StringVar(&duration, "duration", "1 hour", "lesson duration")
	cmd.Flags().StringVar(&topicMapID, "topic-map", "", "check the selection against this stored topic map")
	cmd.Flags().StringVarP(&out, "out", "o", "", "also render the plan to this PDF file")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func renderCmd() *cobra.Command {
	var out string
	var preview bool

	cmd := &cobra.Command{
		Use:   "render <plan-id>",
		Short: "Render a stored lesson plan to PDF (or a PNG preview)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var data []byte
			name := out
			if preview {
				if data, err = a.LessonPlans.Preview(cmd.Context(), args[0]); err != nil {
					return err
				}
				if name == "" {
					name = args[0] + ".png"
				}
			} else {
				var fileName string
				if data, fileName, err = a.LessonPlans.Download(cmd.Context(), args[0]); err != nil {
					return err
				}
				if name == "" {
					name = fileName
				}
			}
			if err := os.WriteFile(name, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: lesson_plan_<subject>_<id>.pdf)")
	cmd.Flags().BoolVar(&preview, "preview", false, "write the PNG cover card instead of the PDF")
	return cmd
}

func watchCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Extract topic maps from outlines dropped into a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if dir == "" {
				dir = a.Cfg.WatchDir
			}
			if dir == "" {
				return fmt.Errorf("no folder given: pass --dir or set WATCH_DIR")
			}
			if err := a.StartWatcher(cmd.Context(), dir); err != nil {
				return err
			}
			<-cmd.Context().Done()
			a.DocProcessor.Wait()
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "folder to watch (default: WATCH_DIR)")
	return cmd
}

func joinValues[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
