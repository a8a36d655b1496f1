package services

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"partflow/models"
)

// PartData is one independently serialized slice of the event stream.
type PartData struct {
	Name       string
	Measures   int
	Events     []map[string]interface{}
	Content    string // the part's events re-serialized as YAML
	EventCount int
}

// SplitResult is the deterministic partition of a parsed score: the full
// score plus one part per distinct first-listed instrument, in first-seen
// order.
type SplitResult struct {
	FullScore   PartData
	Instruments []PartData
}

// SplitScore partitions a parser-produced YAML event stream into parts.
// Every event lands in the full score; an event naming instruments is
// additionally attributed to its first-listed instrument only. Events with
// no instruments appear only in the full score. Measures on the full score
// is the maximum bar number observed, 0 when no event carries one.
func SplitScore(yamlText string) (*SplitResult, error) {
	var events []map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlText), &events); err != nil {
		return nil, fmt.Errorf("failed to decode event stream: %w", err)
	}

	maxBar := 0
	for _, event := range events {
		if bar := barNumber(event); bar > maxBar {
			maxBar = bar
		}
	}

	result := &SplitResult{
		FullScore: PartData{
			Name:       models.FullScorePartName,
			Measures:   maxBar,
			Events:     events,
			EventCount: len(events),
		},
	}

	var order []string
	byInstrument := make(map[string][]map[string]interface{})
	for _, event := range events {
		instrument := firstInstrument(event)
		if instrument == "" {
			continue
		}
		if _, seen := byInstrument[instrument]; !seen {
			order = append(order, instrument)
		}
		byInstrument[instrument] = append(byInstrument[instrument], event)
	}

	for _, instrument := range order {
		events := byInstrument[instrument]
		result.Instruments = append(result.Instruments, PartData{
			Name:       instrument,
			Measures:   maxBarOf(events),
			Events:     events,
			EventCount: len(events),
		})
	}

	if err := serializeParts(result); err != nil {
		return nil, err
	}
	return result, nil
}

func serializeParts(result *SplitResult) error {
	content, err := marshalEvents(result.FullScore.Events)
	if err != nil {
		return err
	}
	result.FullScore.Content = content

	for i := range result.Instruments {
		content, err := marshalEvents(result.Instruments[i].Events)
		if err != nil {
			return err
		}
		result.Instruments[i].Content = content
	}
	return nil
}

func marshalEvents(events []map[string]interface{}) (string, error) {
	if len(events) == 0 {
		return "", nil
	}
	out, err := yaml.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("failed to serialize part: %w", err)
	}
	return string(out), nil
}

func maxBarOf(events []map[string]interface{}) int {
	max := 0
	for _, event := range events {
		if bar := barNumber(event); bar > max {
			max = bar
		}
	}
	return max
}

func barNumber(event map[string]interface{}) int {
	switch bar := event["bar"].(type) {
	case int:
		return bar
	case int64:
		return int(bar)
	case float64:
		return int(bar)
	default:
		return 0
	}
}

// firstInstrument returns the event's first-listed instrument. An event
// naming several instruments is attributed solely to the first for
// partitioning.
func firstInstrument(event map[string]interface{}) string {
	raw, ok := event["instruments"].([]interface{})
	if !ok || len(raw) == 0 {
		return ""
	}
	if s, ok := raw[0].(string); ok {
		return s
	}
	return ""
}
