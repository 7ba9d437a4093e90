package ingest_test

import (
	"testing"

	"github.com/ruckwatch/ruckwatch/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Basic(t *testing.T) {
	recs := ingest.Decode("a,b\n1,2\n3,4")
	require.Len(t, recs, 2)
	assert.Equal(t, ingest.Record{"a": "1", "b": "2"}, recs[0])
	assert.Equal(t, ingest.Record{"a": "3", "b": "4"}, recs[1])
}

func TestDecode_EmptyAndHeaderOnly(t *testing.T) {
	assert.Empty(t, ingest.Decode(""))
	assert.Empty(t, ingest.Decode("   \n  "))
	assert.Empty(t, ingest.Decode("a,b"))
	assert.Empty(t, ingest.Decode("a,b\n"))
}

func TestDecode_TrimsHeadersAndValues(t *testing.T) {
	recs := ingest.Decode(" a , b \n 1 , 2 ")
	require.Len(t, recs, 1)
	assert.Equal(t, ingest.Record{"a": "1", "b": "2"}, recs[0])
}

func TestDecode_MissingTrailingValues(t *testing.T) {
	recs := ingest.Decode("a,b,c\n1,2")
	require.Len(t, recs, 1)

	assert.Equal(t, "1", recs[0]["a"])
	assert.Equal(t, "2", recs[0]["b"])
	_, present := recs[0]["c"]
	assert.False(t, present, "missing trailing value should leave the key absent")
}

func TestDecode_ExtraValuesDropped(t *testing.T) {
	recs := ingest.Decode("a,b\n1,2,3,4")
	require.Len(t, recs, 1)
	assert.Equal(t, ingest.Record{"a": "1", "b": "2"}, recs[0])
}

func TestDecode_NoQuoteHandling(t *testing.T) {
	// Quoted fields are split positionally like everything else. This is the
	// documented artifact contract, not a defect.
	recs := ingest.Decode(`a,b` + "\n" + `"x,y",2`)
	require.Len(t, recs, 1)
	assert.Equal(t, `"x`, recs[0]["a"])
	assert.Equal(t, `y"`, recs[0]["b"])
}

func TestDecode_OrderPreserved(t *testing.T) {
	recs := ingest.Decode("n\n3\n1\n2")
	require.Len(t, recs, 3)
	assert.Equal(t, "3", recs[0]["n"])
	assert.Equal(t, "1", recs[1]["n"])
	assert.Equal(t, "2", recs[2]["n"])
}
