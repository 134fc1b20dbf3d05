package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/internal/files"
)

// InputSet lists the input tables of one run.
type InputSet struct {
	Mapping   string
	Targets   string
	Variables []string
}

// FileValidator checks inputs and outputs before a run starts
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputs checks every input table and reports all problems at once.
// A run with no variable files is allowed and produces an identifier-only
// table.
func (v *FileValidator) ValidateInputs(in InputSet) error {
	var errs []error
	if err := v.ValidateTableFile(in.Mapping); err != nil {
		errs = append(errs, err)
	}
	if err := v.ValidateTableFile(in.Targets); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool, len(in.Variables))
	for _, path := range in.Variables {
		if seen[path] {
			errs = append(errs, apperrors.NewAppValidationError(
				fmt.Sprintf("variable file %s is listed more than once", path)).WithContext("file", path))
			continue
		}
		seen[path] = true
		if err := v.ValidateTableFile(path); err != nil {
			errs = append(errs, err)
		}
	}

	if len(in.Variables) == 0 {
		v.logger.Warn("No variable files to process")
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	v.logger.Info("Input files validated",
		slog.String("mapping", in.Mapping),
		slog.String("targets", in.Targets),
		slog.Int("variables", len(in.Variables)))
	return nil
}

// ValidateTableFile checks that path is a readable table in a supported
// format and not an Excel lock file
func (v *FileValidator) ValidateTableFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if !files.IsSupported(path) {
		ext := strings.ToLower(filepath.Ext(path))
		v.logger.Error("Unsupported table format",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewAppValidationError(
			fmt.Sprintf("file %s has unsupported format %q", path, ext)).WithContext("file", path)
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Temporary Excel file",
			slog.String("file", path))
		return apperrors.NewAppValidationError(
			fmt.Sprintf("file %s is a temporary Excel file", path)).WithContext("file", path)
	}

	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	if path == "" {
		return apperrors.NewAppValidationError("input file not set")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewNotFoundError("file " + path).WithContext("file", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewAppValidationError(
			fmt.Sprintf("%s is a directory, not a file", path)).WithContext("file", path)
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	// Try to create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	file, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := file.Name()
	file.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
