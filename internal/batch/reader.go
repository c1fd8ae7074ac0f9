package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/models"
)

// InputRecord is one line of the JSONL batch input.
type InputRecord struct {
	Term          string                    `json:"term"`
	Text          string                    `json:"text"`
	Category      string                    `json:"category,omitempty"`
	Context       *models.EvaluationContext `json:"context,omitempty"`
	CorrelationID string                    `json:"correlation_id,omitempty"`
}

type Reader struct {
	r      io.Reader
	logger *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{r: r, logger: logger}
}

// ReadAll streams records from the input. Malformed lines are logged and
// skipped so one bad line does not abort the batch.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var record InputRecord
			if err := json.Unmarshal([]byte(line), &record); err != nil {
				r.logger.Warn().Err(err).Int("line", lineNo).Msg("skipping malformed input line")
				continue
			}

			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Msg("reading batch input failed")
		}
	}()

	return out
}
