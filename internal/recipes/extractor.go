package recipes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultFallbackIcon is used when a source's first line carries no icon marker.
const DefaultFallbackIcon = "📃"

// iconPattern captures the shortest run of non-word characters that follows
// "# " and is itself followed by a space and more text.
var iconPattern = regexp.MustCompile(`^# ([^\w]+?) .*`)

// ExtractIcon returns the icon marker of a heading line such as "# 🌮 Tacos",
// or fallback when the line does not carry one. It never fails.
func ExtractIcon(firstLine, fallback string) string {
	match := iconPattern.FindStringSubmatch(strings.TrimSpace(firstLine))
	if match == nil {
		return fallback
	}
	return match[1]
}

// Extractor reads the icon marker of a single source document.
type Extractor struct {
	Fallback string
}

// Extract opens path and extracts the icon from its first line only. An
// unreadable file is an error; an empty file yields the fallback icon.
func (e Extractor) Extract(path string) (string, error) {
	line, err := readFirstLine(path)
	if err != nil {
		return "", err
	}
	return ExtractIcon(line, e.fallback()), nil
}

func (e Extractor) fallback() string {
	if e.Fallback == "" {
		return DefaultFallbackIcon
	}
	return e.Fallback
}

func readFirstLine(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("recipes: open %s: %w", path, err)
	}
	defer file.Close()

	line, err := bufio.NewReader(file).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("recipes: read %s: %w", path, err)
	}
	return line, nil
}

// PageName derives the canonical page name of a source: the file name with
// its last extension stripped. Leading dots do not start an extension, so
// ".md" stays ".md". No other normalisation is applied.
func PageName(path string) string {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 || strings.TrimLeft(base[:idx], ".") == "" {
		return base
	}
	return base[:idx]
}
