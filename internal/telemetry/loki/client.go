// Package loki is an inner sink that pushes formatted records to Grafana Loki.
package loki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"loggov/internal/governance/domain"
)

// DefaultJob is the job label of every stream pushed by the sink.
const DefaultJob = "loggov"

// PushRequest is the Loki push API request body (v1).
type PushRequest struct {
	Streams []Stream `json:"streams"`
}

// Stream is a single stream with labels and log entries.
type Stream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"` // each entry is [timestamp_ns, log_line]
}

// labelSanitize replaces characters that are invalid in Loki label values we produce.
var labelSanitize = regexp.MustCompile(`[^a-zA-Z0-9_\-:.]`)

// line is the JSON log line pushed for each record.
type line struct {
	ID         string         `json:"event_id,omitempty"`
	Level      string         `json:"level"`
	Topic      string         `json:"topic"`
	Caller     string         `json:"caller,omitempty"`
	Template   string         `json:"template,omitempty"`
	Message    string         `json:"message"`
	Fields     map[string]any `json:"fields,omitempty"`
	Violations []string       `json:"violations,omitempty"`
}

// Sink pushes one stream entry per record. Labels are job, topic, level and, for annotated
// records, governed="violation" so violating lines can be selected without parsing.
type Sink struct {
	baseURL string
	job     string
	client  *http.Client
}

// Option configures a Sink.
type Option func(*Sink)

// WithHTTPClient sets the HTTP client (default: 5s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sink) { s.client = c }
}

// WithJob sets the job label.
func WithJob(job string) Option {
	return func(s *Sink) { s.job = job }
}

// NewSink returns a Loki sink for baseURL (e.g. http://localhost:3100).
func NewSink(baseURL string, opts ...Option) (*Sink, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("loki: base URL is empty")
	}
	s := &Sink{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		job:     DefaultJob,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Write implements sink.Sink.
func (s *Sink) Write(ctx context.Context, rec domain.Record) error {
	payload, err := json.Marshal(toLine(rec))
	if err != nil {
		return fmt.Errorf("loki: encode line: %w", err)
	}
	labels := map[string]string{
		"topic": rec.Topic,
		"level": rec.Level.String(),
	}
	if len(rec.Violations) > 0 {
		labels["governed"] = "violation"
	}
	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return s.push(ctx, ts, string(payload), labels)
}

func toLine(rec domain.Record) line {
	l := line{
		ID:       rec.ID,
		Level:    rec.Level.String(),
		Topic:    rec.Topic,
		Caller:   rec.Caller,
		Template: rec.Template,
		Message:  rec.Message,
	}
	if len(rec.Fields) > 0 {
		l.Fields = make(map[string]any, len(rec.Fields))
		for _, f := range rec.Fields {
			l.Fields[f.Name] = f.Value
		}
	}
	if len(rec.Violations) > 0 {
		l.Violations = domain.ViolationStrings(rec.Violations)
	}
	return l
}

// push sends a single log line. Returns an error if the request fails or Loki returns non-2xx.
func (s *Sink) push(ctx context.Context, timestamp time.Time, logLine string, labels map[string]string) error {
	streamLabels := make(map[string]string, len(labels)+1)
	streamLabels["job"] = s.job
	for k, v := range labels {
		sanitized := labelSanitize.ReplaceAllString(strings.TrimSpace(v), "_")
		if sanitized != "" {
			streamLabels[k] = sanitized
		}
	}
	body := PushRequest{
		Streams: []Stream{{
			Stream: streamLabels,
			Values: [][]string{{strconv.FormatInt(timestamp.UnixNano(), 10), logLine}},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/loki/api/v1/push", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("loki: push: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("loki: push returned %s", resp.Status)
	}
	return nil
}
