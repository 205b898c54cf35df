package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_PlainObject(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"ConsignmentNo":"CN-1","ActualWeight":25000}`))
	require.NoError(t, err)
	assert.Equal(t, "CN-1", doc.Get("ConsignmentNo"))
	assert.Equal(t, "25000", doc.Get("ActualWeight"), "numbers read back as trimmed strings")
}

func TestParseDocument_DoubleEncodedString(t *testing.T) {
	// Some rows store the JSON as a quoted string with escaped quotes.
	raw := `"{\"ConsignmentNo\":\"CN-2\",\"Branch\":\"ARAKKONAM\"}"`

	doc, err := ParseDocument([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "CN-2", doc.Get("ConsignmentNo"))
	assert.Equal(t, "ARAKKONAM", doc.Get("Branch"))
}

func TestParseDocument_FinalDataEnvelope(t *testing.T) {
	raw := `{"final_data":{"ConsignmentNo":"CN-3"},"meta":{"model":"x"}}`

	doc, err := ParseDocument([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "CN-3", doc.Get("ConsignmentNo"))
	assert.Empty(t, doc.Get("meta"), "envelope siblings are discarded")
}

func TestParseDocument_Errors(t *testing.T) {
	for _, raw := range []string{"", "   ", "{{nope", "[1,2,3]"} {
		_, err := ParseDocument([]byte(raw))
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestDocumentGet_NormalizedKeyFallback(t *testing.T) {
	doc := NewDocument(map[string]any{"E-Way Bill No": "EWB1", "GSTType": "Registered"})

	assert.Equal(t, "EWB1", doc.Get("E-Way Bill No"))
	assert.Equal(t, "EWB1", doc.Get("eway_bill_no"), "punctuation and case are ignored")
	assert.Equal(t, "Registered", doc.Get("gst type"))
	assert.Empty(t, doc.Get("NoSuchKey"))
}

func TestDocumentGet_FirstCandidateWins(t *testing.T) {
	doc := NewDocument(map[string]any{"Vehicle": "TN1", "VehicleNo": "TN2"})
	assert.Equal(t, "TN1", doc.Get("Vehicle", "VehicleNo"))
	assert.Equal(t, "TN2", doc.Get("Bogus", "VehicleNo"))
}

func TestDocumentSet_OverwritesAndRenormalizes(t *testing.T) {
	doc := NewDocument(map[string]any{"GSTType": "Registered"})
	doc.Set("GSTType", "Unregistered")

	assert.Equal(t, "Unregistered", doc.Get("GSTType"))
	assert.Equal(t, "Unregistered", doc.Get("gst_type"))
}

func TestJobPayload_PrefersCorrectedWhenFixed(t *testing.T) {
	j := &DocumentJob{
		PrevStatus: StatusFixed,
		Extracted:  []byte(`{"a":1}`),
		Corrected:  []byte(`{"a":2}`),
	}
	assert.Equal(t, `{"a":2}`, string(j.Payload()))
}

func TestJobPayload_IgnoresEmptyCorrected(t *testing.T) {
	for _, corrected := range []string{"", "{}", "null"} {
		j := &DocumentJob{
			PrevStatus: StatusFixed,
			Extracted:  []byte(`{"a":1}`),
			Corrected:  []byte(corrected),
		}
		assert.Equal(t, `{"a":1}`, string(j.Payload()), "corrected=%q", corrected)
	}
}

func TestJobPayload_ExtractedWhenNotStarted(t *testing.T) {
	j := &DocumentJob{
		PrevStatus: StatusNotStarted,
		Extracted:  []byte(`{"a":1}`),
		Corrected:  []byte(`{"a":2}`),
	}
	assert.Equal(t, `{"a":1}`, string(j.Payload()))
}
