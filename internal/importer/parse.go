package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes r as the given format. It does not validate card content;
// that is Normalize's job.
func Parse(r io.Reader, format Format) ([]RawCard, error) {
	switch format {
	case FormatCSV:
		return parseDelimited(r, ',', false)
	case FormatAnki:
		return parseDelimited(r, '\t', true)
	case FormatQuizlet:
		return parseQuizlet(r)
	case FormatJSON:
		return parseJSON(r)
	case FormatYAML:
		return parseYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// deck is the wrapped document shape: {"cards": [...]}.
type deck struct {
	Cards []RawCard `json:"cards" yaml:"cards"`
}

func parseJSON(r io.Reader) ([]RawCard, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []RawCard{}, nil
	}
	if data[0] == '[' {
		var cards []RawCard
		if err := json.Unmarshal(data, &cards); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		return cards, nil
	}
	var d deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return orEmpty(d.Cards), nil
}

func parseYAML(r io.Reader) ([]RawCard, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return []RawCard{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.SequenceNode {
		var cards []RawCard
		if err := root.Decode(&cards); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		return cards, nil
	}
	var d deck
	if err := root.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return orEmpty(d.Cards), nil
}

// knownColumns maps header names onto RawCard setters.
var knownColumns = map[string]func(*RawCard, string){
	"id":         func(*RawCard, string) {},
	"front":      func(c *RawCard, v string) { c.Front = v },
	"back":       func(c *RawCard, v string) { c.Back = v },
	"italian":    func(c *RawCard, v string) { c.Italian = v },
	"english":    func(c *RawCard, v string) { c.English = v },
	"term":       func(c *RawCard, v string) { c.Term = v },
	"definition": func(c *RawCard, v string) { c.Definition = v },
	"question":   func(c *RawCard, v string) { c.Question = v },
	"answer":     func(c *RawCard, v string) { c.Answer = v },
	"tags":       func(c *RawCard, v string) { c.Tags = SplitTags(v) },
	"difficulty": func(c *RawCard, v string) {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Difficulty = &n
		}
	},
}

// parseDelimited reads CSV-like input. When the first row names known columns
// it is used as a header, otherwise columns are front, back, tags.
// Anki exports prefix directives with '#'.
func parseDelimited(r io.Reader, sep rune, comments bool) ([]RawCard, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	if comments {
		cr.Comment = '#'
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	cards := make([]RawCard, 0, len(records))
	if len(records) == 0 {
		return cards, nil
	}

	header := headerColumns(records[0])
	if header != nil {
		records = records[1:]
	}

	for _, rec := range records {
		if blank(rec) {
			continue
		}
		var c RawCard
		if header != nil {
			for i, v := range rec {
				if i < len(header) && header[i] != nil {
					header[i](&c, v)
				}
			}
		} else {
			positional(&c, rec)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func headerColumns(row []string) []func(*RawCard, string) {
	cols := make([]func(*RawCard, string), len(row))
	matched := 0
	for i, name := range row {
		if set, ok := knownColumns[strings.ToLower(strings.TrimSpace(name))]; ok {
			cols[i] = set
			matched++
		}
	}
	if matched == 0 {
		return nil
	}
	return cols
}

func positional(c *RawCard, rec []string) {
	if len(rec) > 0 {
		c.Front = rec[0]
	}
	if len(rec) > 1 {
		c.Back = rec[1]
	}
	if len(rec) > 2 {
		c.Tags = SplitTags(rec[2])
	}
}

// parseQuizlet reads Quizlet's default export: one "term<TAB>definition" per line.
// Lines without a tab fall back to " - " as the separator.
func parseQuizlet(r io.Reader) ([]RawCard, error) {
	cards := make([]RawCard, 0)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		term, def, ok := strings.Cut(line, "\t")
		if !ok {
			term, def, _ = strings.Cut(line, " - ")
		}
		cards = append(cards, RawCard{Term: term, Definition: def})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return cards, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func orEmpty(cards []RawCard) []RawCard {
	if cards == nil {
		return []RawCard{}
	}
	return cards
}
