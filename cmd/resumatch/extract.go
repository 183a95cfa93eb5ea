package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/resumatch/internal/decode"
	"github.com/kailas-cloud/resumatch/internal/domain/feature"
	dominsight "github.com/kailas-cloud/resumatch/internal/domain/insight"
	"github.com/kailas-cloud/resumatch/internal/export"
	"github.com/kailas-cloud/resumatch/internal/usecase/extraction"
	"github.com/kailas-cloud/resumatch/internal/usecase/insight"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract features and insights from one document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		maxBytes, _ := cmd.Flags().GetInt64("max-bytes")
		return extractFile(cmd.Context(), cmd.OutOrStdout(), decode.New(maxBytes), args[0], format)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("format", "f", export.FormatJSON, "output format: json or csv")
	extractCmd.Flags().Int64("max-bytes", 10<<20, "largest file accepted")
}

// extractRecord is what the extract command writes.
type extractRecord struct {
	FileName    string                 `json:"file_name"`
	FileType    string                 `json:"file_type"`
	Method      string                 `json:"extraction_method"`
	Features    feature.Vector         `json:"features"`
	TextQuality dominsight.TextQuality `json:"text_quality"`
	Summary     dominsight.Summary     `json:"summary"`
	Sections    []string               `json:"sections"`
	Insights    insightFields          `json:"insights"`
	Skills      map[string][]string    `json:"skills"`
}

type insightFields struct {
	DocumentType      string  `json:"document_type"`
	ProfessionalLevel string  `json:"professional_level"`
	Completeness      float64 `json:"completeness_score"`
}

// extractFile runs the extraction pipeline without the HTTP layer or any store.
func extractFile(ctx context.Context, out io.Writer, dec *decode.Decoder, path, format string) error {
	ext, err := readDocument(ctx, dec, path)
	if err != nil {
		return err
	}

	doc := extraction.Extract(ext.Text)
	ins := insight.Classify(doc)

	sections := make([]string, 0, doc.Sections.Len())
	for _, n := range doc.Sections.Names() {
		sections = append(sections, string(n))
	}
	skills := make(map[string][]string, len(doc.Skills))
	for cat, list := range doc.Skills {
		skills[string(cat)] = list
	}

	rec := extractRecord{
		FileName:    path,
		FileType:    ext.FileType,
		Method:      ext.Method,
		Features:    extraction.BuildFeatureVector(doc),
		TextQuality: insight.TextQuality(doc),
		Summary:     insight.Summarize(doc, ins, insight.Source{FileType: ext.FileType, ExtractionMethod: ext.Method}),
		Sections:    sections,
		Insights: insightFields{
			DocumentType:      string(ins.DocumentType),
			ProfessionalLevel: string(ins.ProfessionalLevel),
			Completeness:      ins.CompletenessScore,
		},
		Skills: skills,
	}
	if err := export.Write(out, rec, format); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}
