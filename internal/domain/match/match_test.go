package match

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceTierNames(t *testing.T) {
	for _, tier := range []ConfidenceTier{ConfidenceNone, ConfidenceLow, ConfidenceMedium, ConfidenceHigh} {
		parsed, err := TierFromString(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, parsed)
	}

	_, err := TierFromString("VERY_HIGH")
	assert.Error(t, err)
}

func TestConfidenceTierJSON(t *testing.T) {
	data, err := json.Marshal(ConfidenceHigh)
	require.NoError(t, err)
	assert.Equal(t, `"HIGH"`, string(data))

	var tier ConfidenceTier
	require.NoError(t, json.Unmarshal([]byte(`"MEDIUM"`), &tier))
	assert.Equal(t, ConfidenceMedium, tier)

	assert.Error(t, json.Unmarshal([]byte(`"NOPE"`), &tier))
}
