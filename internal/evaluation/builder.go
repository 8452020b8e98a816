package evaluation

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"resumescreen/internal/config"
	"resumescreen/internal/errors"
	"resumescreen/internal/types"
)

// Builder assembles a labeled dataset from raw resume and job description
// CSVs. The output carries a placeholder positive label on every pair, so it
// bootstraps evaluation runs but is not ground truth.
type Builder struct {
	config *config.DatasetConfig
	logger *errors.Logger
}

// NewBuilder creates a dataset builder
func NewBuilder(cfg *config.DatasetConfig, logger *errors.Logger) *Builder {
	return &Builder{
		config: cfg,
		logger: logger,
	}
}

// BuildFromFiles loads both CSV sources, pairs them positionally and writes
// the dataset as an indented JSON array.
func (b *Builder) BuildFromFiles(resumePath, jdPath, outputPath string) (*types.BuildDatasetOutput, error) {
	resumes, err := b.LoadCSVColumn(resumePath, b.config.ResumeColumn)
	if err != nil {
		return nil, err
	}
	jds, err := b.LoadCSVColumn(jdPath, b.config.JDColumn)
	if err != nil {
		return nil, err
	}

	samples := b.Build(resumes, jds)

	if err := WriteSamples(outputPath, samples); err != nil {
		return nil, err
	}

	b.logger.Warn("Dataset built with placeholder labels",
		"pairs", len(samples),
		"note", "every pair is labeled 1; this is bootstrap data, not ground truth")

	return &types.BuildDatasetOutput{
		Pairs:       len(samples),
		ResumesUsed: len(resumes),
		JDsUsed:     len(jds),
		OutputFile:  outputPath,
	}, nil
}

// LoadCSVColumn reads one named column from a CSV file. Empty cells are
// dropped, the row cap applies before the length filter, and rows at or below
// the minimum length are discarded as noise.
func (b *Builder) LoadCSVColumn(path, column string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewDatasetError(errors.ErrCodeDatasetNotFound,
				fmt.Sprintf("CSV file not found: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot open CSV file: %s", path), err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewDatasetError(errors.ErrCodeDatasetMalformed,
			fmt.Sprintf("Cannot read CSV header from %s", path), err)
	}

	columnIndex := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			columnIndex = i
			break
		}
	}
	if columnIndex < 0 {
		return nil, errors.NewDatasetError(errors.ErrCodeDatasetMalformed,
			fmt.Sprintf("Column %q not found in %s (available: %s)",
				column, path, strings.Join(header, ", ")), nil)
	}

	var values []string
	for len(values) < b.config.MaxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewDatasetError(errors.ErrCodeDatasetMalformed,
				fmt.Sprintf("Malformed CSV record in %s", path), err)
		}
		if columnIndex >= len(record) {
			continue
		}
		value := record[columnIndex]
		if strings.TrimSpace(value) == "" {
			continue
		}
		values = append(values, value)
	}

	filtered := make([]string, 0, len(values))
	for _, v := range values {
		if len(v) > b.config.MinTextLength {
			filtered = append(filtered, v)
		}
	}

	b.logger.Debug("CSV column loaded",
		"file", path,
		"column", column,
		"rows", len(values),
		"after_length_filter", len(filtered))

	return filtered, nil
}

// Build pairs resumes and job descriptions positionally up to the configured
// pair cap. Every pair gets label 1.
func (b *Builder) Build(resumes, jds []string) []types.LabeledSample {
	count := min(len(resumes), len(jds), b.config.MaxPairs)

	samples := make([]types.LabeledSample, 0, count)
	for i := 0; i < count; i++ {
		samples = append(samples, types.LabeledSample{
			ResumeText:     resumes[i],
			JobDescription: jds[i],
			Label:          1,
		})
	}
	return samples
}

// WriteSamples writes a dataset as an indented JSON array
func WriteSamples(path string, samples []types.LabeledSample) error {
	data, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat,
			"Failed to encode dataset", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotWritable,
			fmt.Sprintf("Failed to write dataset file: %s", path), err)
	}
	return nil
}
