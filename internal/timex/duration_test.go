package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	var cfg struct {
		TTL  Duration `json:"ttl"`
		Nano Duration `json:"nano"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"ttl":"4m","nano":3000000000}`), &cfg))

	assert.Equal(t, 4*time.Minute, cfg.TTL.Duration)
	assert.Equal(t, 3*time.Second, cfg.Nano.Duration)
}

func TestDuration_UnmarshalJSON_Invalid(t *testing.T) {
	var d Duration
	require.Error(t, json.Unmarshal([]byte(`"four minutes"`), &d))
	require.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
