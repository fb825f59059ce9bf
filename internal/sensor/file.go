package sensor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/verte-zerg/simonsays/internal/model"
)

// LoadSamples reads one x,y,z sample per line from the provided file path.
func LoadSamples(path string) ([]model.MotionSample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only sample file.
			_ = cerr
		}
	}()
	return ParseSamples(file)
}

// ParseSamples reads samples separated by commas or whitespace. Blank lines
// and lines starting with # are skipped.
func ParseSamples(r io.Reader) ([]model.MotionSample, error) {
	var samples []model.MotionSample
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) != 3 {
			return nil, fmt.Errorf("sensor: line %d: expected 3 values, got %d", lineNo, len(fields))
		}
		var axes [3]float64
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("sensor: line %d: %w", lineNo, err)
			}
			axes[i] = v
		}
		samples = append(samples, model.MotionSample{X: axes[0], Y: axes[1], Z: axes[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("sample file is empty")
	}
	return samples, nil
}
