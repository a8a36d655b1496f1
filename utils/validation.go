package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var aggregateIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateAggregateID checks a group or tag identifier. Membership keys join
// segments with ":", so identifiers may not contain it.
func ValidateAggregateID(id string) error {
	if id == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(id) > 64 {
		return fmt.Errorf("identifier too long (max 64 characters)")
	}
	if strings.Contains(id, ":") {
		return fmt.Errorf("identifier cannot contain ':'")
	}
	if !aggregateIDPattern.MatchString(id) {
		return fmt.Errorf("identifier may only contain lowercase letters, digits, '-' and '_'")
	}
	return nil
}

func ValidateFileName(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if len(filename) > 255 {
		return fmt.Errorf("filename too long (max 255 characters)")
	}

	if !utf8.ValidString(filename) {
		return fmt.Errorf("filename contains invalid UTF-8 characters")
	}

	invalidChars := []string{"<", ">", "\"", "|", "?", "*", "/", "\\", "\x00"}
	for _, char := range invalidChars {
		if strings.Contains(filename, char) {
			return fmt.Errorf("filename contains invalid character: %s", char)
		}
	}
	return nil
}

func ValidateUploadSize(size int64, maxSize int64) error {
	if size == 0 {
		return fmt.Errorf("upload body cannot be empty")
	}
	if size > maxSize {
		return fmt.Errorf("upload of %d bytes exceeds maximum allowed size of %d bytes", size, maxSize)
	}
	return nil
}
