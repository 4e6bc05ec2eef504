package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactUnmarshal_NonStringHours(t *testing.T) {
	raw := `{"today":1700000000,"update":"u","data":{
		"1700000000":{"GPV3.1":{"1":"no","2":0,"3":null,"4":{"x":1},"13":"yes"}}}}`

	var fact Fact
	require.NoError(t, json.Unmarshal([]byte(raw), &fact))
	assert.Equal(t, int64(1700000000), fact.Today)
	assert.Equal(t, map[string]string{"1": "no", "13": "yes"}, fact.Data["1700000000"]["GPV3.1"])

	hours, ok := Normalize(&fact, "GPV3.1", 1700000000)
	require.True(t, ok)
	assert.Equal(t, StatusOff, hours[0])
	assert.Equal(t, StatusUnknown, hours[1])
	assert.Equal(t, StatusUnknown, hours[2])
	assert.Equal(t, StatusUnknown, hours[3])
	assert.Equal(t, StatusOn, hours[12])
}

func TestFactUnmarshal_EmptyArrays(t *testing.T) {
	raw := `{"today":1700000000,"data":{
		"1700000000":{"GPV3.1":{"1":"yes"},"GPV1.1":[]},
		"1700086400":[]}}`

	var fact Fact
	require.NoError(t, json.Unmarshal([]byte(raw), &fact))

	_, ok := Normalize(&fact, "GPV3.1", 1700000000)
	assert.True(t, ok)
	_, ok = Normalize(&fact, "GPV1.1", 1700000000)
	assert.False(t, ok)
	_, ok = Normalize(&fact, "GPV3.1", 1700086400)
	assert.False(t, ok)
	assert.Len(t, Resolve(&fact, "GPV3.1", 1700000000, 2), 1)
}

func TestFactUnmarshal_DataNotObject(t *testing.T) {
	var fact Fact
	require.NoError(t, json.Unmarshal([]byte(`{"today":5,"data":[]}`), &fact))
	assert.Empty(t, fact.Data)
	assert.Nil(t, AvailableQueues(&fact))
}

func TestFactRoundTrip(t *testing.T) {
	b, err := json.Marshal(testFact())
	require.NoError(t, err)

	var fact Fact
	require.NoError(t, json.Unmarshal(b, &fact))
	assert.Equal(t, *testFact(), fact)
}
