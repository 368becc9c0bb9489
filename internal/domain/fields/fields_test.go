package fields

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingMarshalJSON(t *testing.T) {
	t.Run("NoReviews", func(t *testing.T) {
		data, err := json.Marshal(NewRating(nil))
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})
	t.Run("Average", func(t *testing.T) {
		avg := 8.0 // e.g. reviews scored 8, 6 and 10
		data, err := json.Marshal(NewRating(&avg))
		require.NoError(t, err)
		assert.Equal(t, "8.0", string(data))
	})
	t.Run("Fractional", func(t *testing.T) {
		avg := 7.5
		data, err := json.Marshal(NewRating(&avg))
		require.NoError(t, err)
		assert.Equal(t, "7.5", string(data))
	})
}
