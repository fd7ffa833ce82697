package ymdict

import (
	"testing"

	"github.com/driftcache/driftcache/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Price float64 `json:"price"`
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ser := serializer.JSON[quote]()
	snapshot := map[string]quote{
		"YHOO": {Price: 34.5},
		"AAPL": {Price: 190.1},
	}

	doc, err := Encode(snapshot, ser)
	require.NoError(t, err)
	assert.Len(t, doc, 2)
	assert.Equal(t, 34.5, doc["YHOO"]["price"])

	back, err := Decode(doc, ser)
	require.NoError(t, err)
	assert.Equal(t, snapshot, back)
}

func TestDecodePropagatesSerializerError(t *testing.T) {
	ser := serializer.JSON[quote]()
	doc := map[string]serializer.Dict{
		"bad": {"price": "not-a-number"},
	}

	_, err := Decode(doc, ser)
	assert.Error(t, err)
}
