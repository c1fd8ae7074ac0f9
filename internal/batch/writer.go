package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/models"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Writer emits validation results either line by line (jsonl) or as a single
// aggregate document (summary) on Close.
type Writer struct {
	w      io.Writer
	format string
	logger *zerolog.Logger

	count          int
	acceptable     int
	degraded       int
	scoreSum       float64
	classification map[models.Classification]int
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	switch format {
	case FormatJSONL, FormatSummary:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &Writer{
		w:              w,
		format:         format,
		logger:         logger,
		classification: make(map[models.Classification]int),
	}, nil
}

func (w *Writer) Write(result models.ValidationResult) error {
	w.count++
	w.scoreSum += result.OverallScore
	w.classification[result.Classification]++
	if result.IsAcceptable {
		w.acceptable++
	}
	if result.Degraded() {
		w.degraded++
	}

	if w.format != FormatJSONL {
		return nil
	}

	line, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result %s: %w", result.System.CorrelationID, err)
	}
	if _, err := fmt.Fprintln(w.w, string(line)); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

type summaryDoc struct {
	Total          int                           `json:"total"`
	Acceptable     int                           `json:"acceptable"`
	Degraded       int                           `json:"degraded"`
	MeanScore      float64                       `json:"mean_score"`
	Classification map[models.Classification]int `json:"classification"`
}

func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}

	doc := summaryDoc{
		Total:          w.count,
		Acceptable:     w.acceptable,
		Degraded:       w.degraded,
		Classification: w.classification,
	}
	if w.count > 0 {
		doc.MeanScore = w.scoreSum / float64(w.count)
	}

	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
