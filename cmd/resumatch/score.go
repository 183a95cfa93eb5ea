package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/resumatch/internal/decode"
	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
	"github.com/kailas-cloud/resumatch/internal/export"
	analysisuc "github.com/kailas-cloud/resumatch/internal/usecase/analysis"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one resume file against a job description file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resume, _ := cmd.Flags().GetString("resume")
		job, _ := cmd.Flags().GetString("job")
		format, _ := cmd.Flags().GetString("format")
		return score(cmd.Context(), cmd.OutOrStdout(), resume, job, format)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "resume file (txt, md, pdf, docx)")
	scoreCmd.Flags().StringP("job", "j", "", "job description file")
	scoreCmd.Flags().StringP("format", "f", export.FormatJSON, "output format: json or csv")
	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("job")
}

func score(ctx context.Context, out io.Writer, resumePath, jobPath, format string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	in, err := scoreInput(ctx, a.decoder, resumePath, jobPath)
	if err != nil {
		return err
	}
	res, err := a.analysis.Analyze(ctx, in)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return export.Write(out, res.Similarity, format)
}

// scoreInput decodes both files into an analysis request.
func scoreInput(ctx context.Context, dec *decode.Decoder, resumePath, jobPath string) (analysisuc.Input, error) {
	resume, err := readDocument(ctx, dec, resumePath)
	if err != nil {
		return analysisuc.Input{}, err
	}
	job, err := readDocument(ctx, dec, jobPath)
	if err != nil {
		return analysisuc.Input{}, err
	}
	name := filepath.Base(resumePath)
	return analysisuc.Input{
		ResumeText: resume.Text,
		JobText:    job.Text,
		FileName:   name,
		Extraction: domanalysis.Extraction{FileName: name, FileType: resume.FileType, Method: resume.Method},
	}, nil
}

// readDocument reads a file from disk and decodes it by extension.
func readDocument(ctx context.Context, dec *decode.Decoder, path string) (decode.Extracted, error) {
	if path == "" {
		return decode.Extracted{}, errors.New("file path is required")
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return decode.Extracted{}, fmt.Errorf("read %s: %w", path, err)
	}
	ext, err := dec.Text(ctx, data, filepath.Base(path))
	if err != nil {
		return decode.Extracted{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return ext, nil
}
