package sheetsclient

import (
	"fmt"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/internal/config"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/roster"
)

// Required columns in the Provider Tags tab. An optional "rule" column
// carries a free-form note attached to the tag.
var tagFields = []string{
	"provider_name",
	"tag",
}

// ListTags retrieves the Provider Tags tab and groups tags by provider name
func (c *Client) ListTags(cfg *config.Config) (map[string][]roster.Tag, error) {
	values, err := c.GetValues(cfg.ProviderSheetID, cfg.TagsTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("tags tab is empty")
	}

	return parseTags(values)
}

func parseTags(raw [][]interface{}) (map[string][]roster.Tag, error) {
	idx, err := indexHeader(raw[0], tagFields)
	if err != nil {
		return nil, err
	}

	tags := make(map[string][]roster.Tag)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := idx.get("provider_name", row)
		tag := idx.get("tag", row)
		if name == "" || tag == "" {
			continue
		}

		tags[name] = append(tags[name], roster.Tag{
			Name: tag,
			Rule: idx.get("rule", row),
		})
	}

	return tags, nil
}
