package upload

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Upload constraints for candidate documents.
const (
	MaxFileSize        = 10 * 1024 * 1024 // 10MB
	MaxFilesPerRequest = 5
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Allowed file extensions (strict whitelist)
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

var allowedMIMETypes = map[string]bool{
	MimePDF:  true,
	MimeDOCX: true,
}

// Magic byte signatures per extension
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}}, // %PDF
	".docx": {{0x50, 0x4B, 0x03, 0x04}}, // ZIP (PK..)
}

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid     bool   // Whether the file passed all validation checks
	Extension string // Detected file extension
	TooLarge  bool   // Whether the failure was an oversize file
	Error     string // Error message if validation failed
}

// ValidateFile checks a candidate document upload against the accepted
// constraints before any storage write happens:
// 1. Size limit
// 2. Extension whitelist
// 3. Declared MIME type whitelist
// 4. Magic byte verification (content matches extension)
func ValidateFile(filename string, data []byte, declaredMIME string, size int64) FileValidationResult {
	result := FileValidationResult{}

	if size > MaxFileSize {
		result.TooLarge = true
		result.Error = fmt.Sprintf("file exceeds the maximum allowed size of %dMB", MaxFileSize/1024/1024)
		return result
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	if !allowedExtensions[ext] {
		result.Error = "file extension not allowed, accepted: " + strings.Join(AllowedExtensions(), ", ")
		return result
	}

	if !allowedMIMETypes[declaredMIME] {
		result.Error = "file type not allowed, accepted: PDF, DOCX"
		return result
	}

	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension"
		return result
	}

	result.Valid = true
	return result
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // File too small to validate
	}

	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// AllowedExtensions returns the accepted extensions for error messages
func AllowedExtensions() []string {
	return []string{".pdf", ".docx"}
}
