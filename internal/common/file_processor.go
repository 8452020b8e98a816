package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resumescreen/internal/errors"
	"resumescreen/internal/utils"

	"github.com/ledongthuc/pdf"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			// Log the error but don't override the main operation result
			if fp.logger != nil {
				fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
			}
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return string(content), nil
}

// ReadDocument reads a resume or job description from disk, extracting text
// from PDFs and passing other files through as plain text.
func (fp *FileProcessor) ReadDocument(filename string) (string, error) {
	if utils.IsPDFFile(filename) {
		return fp.readPDF(filename)
	}
	return fp.ReadFile(filename)
}

// readPDF extracts plain text from a PDF page by page. Pages that fail to
// decode are skipped; only a document with no extractable text at all is an
// error.
func (fp *FileProcessor) readPDF(filename string) (string, error) {
	file, reader, err := pdf.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot open PDF file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close PDF file", "filename", filename, "error", err)
		}
	}()

	var textBuilder strings.Builder
	totalPages := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			if fp.logger != nil {
				fp.logger.Warn("Skipping unreadable PDF page",
					"filename", filename, "page", pageIndex, "error", err)
			}
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString(" ")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.NewValidationError(errors.ErrCodeEmptyInput,
			fmt.Sprintf("No text content found in PDF: %s", filename), nil)
	}

	return text, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateAndReadFiles validates and reads multiple input documents
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))

	for i, filename := range filenames {
		// Validate input file
		if err := utils.ValidateInputFile(filename); err != nil {
			return nil, errors.NewValidationError("INVALID_INPUT_FILE",
				fmt.Sprintf("Invalid file %s", filename), err)
		}

		// Warn about unrecognized extensions
		if !utils.IsSupportedDocument(filename) {
			if fp.logger != nil {
				fp.logger.Warn("File may not be a supported document format",
					"filename", filename)
			} else {
				fmt.Fprintf(os.Stderr, "Warning: %s may not be a supported document format\n", filename)
			}
		}

		// Read document content
		content, err := fp.ReadDocument(filename)
		if err != nil {
			return nil, err // Error already wrapped by ReadDocument
		}

		contents[i] = content
	}

	return contents, nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
