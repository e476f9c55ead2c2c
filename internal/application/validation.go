package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputExtension is the only file extension an export may be written with.
const OutputExtension = ".json"

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "outputDir" -> "output directory")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"outputDir":  "output directory",
		"fileName":   "file name",
		"server":     "directory server",
		"searchBase": "search base",
		"container":  "container DN",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateOutputDir checks that dir names an existing directory.
func ValidateOutputDir(dir string) error {
	if err := ValidateRequired("outputDir", dir); err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{
				Field:   "outputDir",
				Message: fmt.Sprintf("directory does not exist: %s", dir),
			}
		}
		return &ValidationError{
			Field:   "outputDir",
			Message: fmt.Sprintf("cannot access %s: %v", dir, err),
		}
	}
	if !info.IsDir() {
		return &ValidationError{
			Field:   "outputDir",
			Message: fmt.Sprintf("not a directory: %s", dir),
		}
	}
	return nil
}

// ValidateFileName checks that name is a bare file name ending in .json.
func ValidateFileName(name string) error {
	if err := ValidateRequired("fileName", name); err != nil {
		return err
	}

	if filepath.Base(name) != name {
		return &ValidationError{
			Field:   "fileName",
			Message: fmt.Sprintf("must be a file name, not a path: %s", name),
		}
	}
	if !strings.EqualFold(filepath.Ext(name), OutputExtension) || len(name) == len(OutputExtension) {
		return &ValidationError{
			Field:   "fileName",
			Message: fmt.Sprintf("must end in %s: %s", OutputExtension, name),
		}
	}
	return nil
}
