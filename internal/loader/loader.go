// Package loader reads blueprint lists from puzzle text or JSON files
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/napolitain/solver-geode/internal/models"
)

// ErrMalformedBlueprint is returned for input that is not a blueprint
var ErrMalformedBlueprint = errors.New("malformed blueprint")

// blueprintRegex matches one blueprint; sentences may be split across lines
var blueprintRegex = regexp.MustCompile(
	`Blueprint\s+(\d+):\s*` +
		`Each\s+ore\s+robot\s+costs\s+(\d+)\s+ore\.\s*` +
		`Each\s+clay\s+robot\s+costs\s+(\d+)\s+ore\.\s*` +
		`Each\s+obsidian\s+robot\s+costs\s+(\d+)\s+ore\s+and\s+(\d+)\s+clay\.\s*` +
		`Each\s+geode\s+robot\s+costs\s+(\d+)\s+ore\s+and\s+(\d+)\s+obsidian\.`,
)

// ParseBlueprints reads blueprints in the puzzle's text form. A blueprint
// may span several lines; anything left over that is not blank is an error.
func ParseBlueprints(r io.Reader) ([]*models.Blueprint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read blueprints: %w", err)
	}
	text := string(data)

	var blueprints []*models.Blueprint
	seen := make(map[int]bool)
	last := 0

	for _, m := range blueprintRegex.FindAllStringSubmatchIndex(text, -1) {
		if err := checkGap(text, last, m[0]); err != nil {
			return nil, err
		}
		last = m[1]

		values := make([]int, 7)
		for i := range values {
			start, end := m[2*(i+1)], m[2*(i+1)+1]
			n, err := strconv.Atoi(text[start:end])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedBlueprint, lineOf(text, start), err)
			}
			values[i] = n
		}

		bp, err := models.NewStandardBlueprint(values[0], values[1], values[2], values[3], values[4], values[5], values[6])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineOf(text, m[0]), err)
		}
		if seen[bp.ID()] {
			return nil, fmt.Errorf("%w: line %d: duplicate blueprint id %d", ErrMalformedBlueprint, lineOf(text, m[0]), bp.ID())
		}
		seen[bp.ID()] = true
		blueprints = append(blueprints, bp)
	}

	if err := checkGap(text, last, len(text)); err != nil {
		return nil, err
	}
	return blueprints, nil
}

// checkGap fails if text[from:to] holds anything but whitespace
func checkGap(text string, from, to int) error {
	gap := text[from:to]
	trimmed := strings.TrimSpace(gap)
	if trimmed == "" {
		return nil
	}
	offset := from + strings.Index(gap, trimmed)
	line := trimmed
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return fmt.Errorf("%w: line %d: %q", ErrMalformedBlueprint, lineOf(text, offset), line)
}

func lineOf(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}

// LoadBlueprints loads a blueprint file, choosing JSON or text by extension
func LoadBlueprints(path string) ([]*models.Blueprint, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		blueprints, err := ParseBlueprintsJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return blueprints, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	blueprints, err := ParseBlueprints(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return blueprints, nil
}
