package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/gsaclient/gsa/internal/gsa"
)

// YAMLFormatter renders values as block-style YAML with the same field names
// and key order as the JSON output.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatSearch(resp *gsa.SearchResponse) (string, error) {
	if resp == nil {
		return "", nil
	}
	return toYAML(searchPayload(resp))
}

func (f *YAMLFormatter) FormatSuggestion(s *gsa.Suggestion) (string, error) {
	if s.Empty() {
		return "", nil
	}
	return toYAML(suggestionPayload(s))
}

// toYAML goes through JSON so the json tags and ordered result set apply,
// then re-parses into a yaml.Node, which keeps mapping order.
func toYAML(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	blockStyle(&doc)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
