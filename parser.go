package lepton

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Section delimiters emitted by the upstream stream. They separate the
// answer text from the related-questions block and carry no payload.
const (
	markerResponse  = "__LLM_RESPONSE__"
	markerQuestions = "__RELATED_QUESTIONS__"
)

var citationTag = regexp.MustCompile(`\[citation:\d+\]`)

var publishedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// streamParser assembles one SearchResult from the newline-delimited
// response body. State is per-call; a fresh parser is built per request.
type streamParser struct {
	echo   io.Writer
	logger *zap.Logger

	answer    strings.Builder
	contexts  []Context
	questions []string
}

func (p *streamParser) parse(r io.Reader) (*SearchResult, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		if err := p.handleLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read stream: %w", ErrConnection, err)
	}

	return &SearchResult{
		Response:         p.answer.String(),
		Contexts:         p.contexts,
		RelatedQuestions: p.questions,
	}, nil
}

func (p *streamParser) handleLine(line string) error {
	if line == "" || line == markerResponse || line == markerQuestions {
		return nil
	}

	if !json.Valid([]byte(line)) {
		p.appendFragment(line)
		return nil
	}

	switch {
	case strings.Contains(line, `"contexts"`):
		return p.parseContexts(line)
	case strings.Contains(line, `"question"`):
		return p.parseQuestions(line)
	}

	// Unrecognized JSON payloads are newer upstream features, not errors.
	p.logger.Debug("skipping unrecognized chunk", zap.Int("len", len(line)))
	return nil
}

type wireContext struct {
	Name             string `json:"name"`
	ID               string `json:"id"`
	URL              string `json:"url"`
	ThumbnailURL     string `json:"thumbnailUrl"`
	DatePublished    string `json:"datePublished"`
	IsFamilyFriendly *bool  `json:"isFamilyFriendly"`
	DisplayURL       string `json:"displayUrl"`
	Snippet          string `json:"snippet"`
}

func (p *streamParser) parseContexts(line string) error {
	var payload struct {
		Contexts []wireContext `json:"contexts"`
	}
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		return &ParseError{Chunk: line, Err: err}
	}

	contexts := make([]Context, 0, len(payload.Contexts))
	for _, wc := range payload.Contexts {
		if wc.URL == "" {
			return &ParseError{Chunk: line, Err: fmt.Errorf("context %q missing url", wc.Name)}
		}

		ctx := Context{
			Name:             wc.Name,
			ID:               wc.ID,
			URL:              wc.URL,
			ThumbnailURL:     wc.ThumbnailURL,
			IsFamilyFriendly: wc.IsFamilyFriendly == nil || *wc.IsFamilyFriendly,
			DisplayURL:       wc.DisplayURL,
			Snippet:          wc.Snippet,
		}
		if wc.DatePublished != "" {
			ts, err := parsePublishedDate(wc.DatePublished)
			if err != nil {
				p.logger.Warn("unparseable datePublished",
					zap.String("value", wc.DatePublished),
					zap.String("url", wc.URL),
				)
			} else {
				ctx.DatePublished = &ts
			}
		}
		contexts = append(contexts, ctx)
	}

	p.contexts = append(p.contexts, contexts...)
	return nil
}

func (p *streamParser) parseQuestions(line string) error {
	var payload []struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		return &ParseError{Chunk: line, Err: err}
	}

	for _, q := range payload {
		if q.Question != "" {
			p.questions = append(p.questions, q.Question)
		}
	}
	return nil
}

func (p *streamParser) appendFragment(line string) {
	cleaned := cleanFragment(line)
	p.answer.WriteString(cleaned)
	if p.echo != nil {
		io.WriteString(p.echo, cleaned)
	}
}

// cleanFragment strips inline citation tags and the stray space the
// upstream model leaves before a period. Each line is one paragraph.
func cleanFragment(text string) string {
	text = citationTag.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, " .", ".")
	return text + "\n"
}

func parsePublishedDate(value string) (time.Time, error) {
	for _, layout := range publishedDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", value)
}
