package importer

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// RawCard is a card as it arrives from a lenient source. Different exporters
// use different names for the two sides, so every known alias is kept.
type RawCard struct {
	Front      string  `json:"front" yaml:"front"`
	Back       string  `json:"back" yaml:"back"`
	Italian    string  `json:"italian" yaml:"italian"`
	English    string  `json:"english" yaml:"english"`
	Term       string  `json:"term" yaml:"term"`
	Definition string  `json:"definition" yaml:"definition"`
	Question   string  `json:"question" yaml:"question"`
	Answer     string  `json:"answer" yaml:"answer"`
	Difficulty *int    `json:"difficulty" yaml:"difficulty"`
	Tags       TagList `json:"tags" yaml:"tags"`
}

// TagList decodes from either a list of strings or a single delimited string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = SplitTags(s)
	return nil
}

func (t *TagList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*t = SplitTags(s)
	return nil
}

// SplitTags splits on commas, semicolons and whitespace.
func SplitTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
}
