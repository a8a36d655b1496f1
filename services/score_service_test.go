package services

import (
	"testing"

	"gopkg.in/yaml.v3"

	"partflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScore = `
- bar: 1
  beat: 1
  instruments: [Violin]
  pitch: A4
- bar: 2
  beat: 1
  instruments: [Viola, Violin]
  pitch: C4
- bar: 3
  beat: 2
  tempo: 120
`

func TestSplitScorePartitionsByFirstInstrument(t *testing.T) {
	result, err := SplitScore(sampleScore)
	require.NoError(t, err)

	full := result.FullScore
	assert.Equal(t, models.FullScorePartName, full.Name)
	assert.Equal(t, 3, full.Measures)
	assert.Equal(t, 3, full.EventCount)

	// The second event lists Viola first, so Violin gets only the first
	// event and no Violin-second attribution happens.
	require.Len(t, result.Instruments, 2)
	violin := result.Instruments[0]
	assert.Equal(t, "Violin", violin.Name)
	assert.Equal(t, 1, violin.EventCount)
	assert.Equal(t, 1, violin.Measures)

	viola := result.Instruments[1]
	assert.Equal(t, "Viola", viola.Name)
	assert.Equal(t, 1, viola.EventCount)
	assert.Equal(t, 2, viola.Measures)
}

func TestSplitScoreUninstrumentedEventsStayInFullScoreOnly(t *testing.T) {
	result, err := SplitScore(sampleScore)
	require.NoError(t, err)

	total := 0
	for _, part := range result.Instruments {
		total += part.EventCount
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 3, result.FullScore.EventCount)
}

func TestSplitScoreInstrumentOrderIsFirstSeen(t *testing.T) {
	input := `
- bar: 1
  instruments: [Cello]
- bar: 1
  instruments: [Flute]
- bar: 2
  instruments: [Cello]
`
	result, err := SplitScore(input)
	require.NoError(t, err)

	require.Len(t, result.Instruments, 2)
	assert.Equal(t, "Cello", result.Instruments[0].Name)
	assert.Equal(t, "Flute", result.Instruments[1].Name)
	assert.Equal(t, 2, result.Instruments[0].EventCount)
}

func TestSplitScoreContentRoundTrips(t *testing.T) {
	result, err := SplitScore(sampleScore)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(result.FullScore.Content), &decoded))
	assert.Len(t, decoded, 3)

	require.Len(t, result.Instruments, 2)
	require.NoError(t, yaml.Unmarshal([]byte(result.Instruments[0].Content), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "A4", decoded[0]["pitch"])
}

func TestSplitScoreIsDeterministic(t *testing.T) {
	first, err := SplitScore(sampleScore)
	require.NoError(t, err)
	second, err := SplitScore(sampleScore)
	require.NoError(t, err)

	assert.Equal(t, first.FullScore.Content, second.FullScore.Content)
	require.Equal(t, len(first.Instruments), len(second.Instruments))
	for i := range first.Instruments {
		assert.Equal(t, first.Instruments[i].Name, second.Instruments[i].Name)
		assert.Equal(t, first.Instruments[i].Content, second.Instruments[i].Content)
	}
}

func TestSplitScoreEmptyInput(t *testing.T) {
	for _, input := range []string{"", "[]\n"} {
		result, err := SplitScore(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, 0, result.FullScore.Measures)
		assert.Equal(t, 0, result.FullScore.EventCount)
		assert.Equal(t, "", result.FullScore.Content)
		assert.Empty(t, result.Instruments)
	}
}

func TestSplitScoreEventsWithoutBarNumbers(t *testing.T) {
	result, err := SplitScore("- instruments: [Oboe]\n  dynamics: mf\n")
	require.NoError(t, err)
	assert.Equal(t, 0, result.FullScore.Measures)
	require.Len(t, result.Instruments, 1)
	assert.Equal(t, 0, result.Instruments[0].Measures)
}

func TestSplitScoreRejectsMalformedYAML(t *testing.T) {
	_, err := SplitScore("not: [a, list")
	assert.Error(t, err)
}
