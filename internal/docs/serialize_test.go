package docs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsmirnov/docshare/internal/common"
)

const legacyPayload = `{
	"id": "123",
	"url": "abcdef/name.pdf",
	"size": 500,
	"created_at": "2019-07-16T10:47:39.865Z",
	"num_parts": 2,
	"uploaded": true
}`

func TestDeserialize_LegacyShape(t *testing.T) {
	doc, err := Deserialize([]byte(legacyPayload))
	require.NoError(t, err)

	require.Equal(t, "123", doc.Id)
	require.Equal(t, "abcdef/name.pdf", doc.FilePath)
	require.Equal(t, "name.pdf", doc.FileName())
	require.EqualValues(t, 500, doc.FileSize)
	require.Equal(t, 2, doc.NumParts)
	require.True(t, doc.Uploaded)
	require.Equal(t, 1, doc.Version)

	want, err := time.Parse(time.RFC3339, "2019-07-16T10:47:39.865Z")
	require.NoError(t, err)
	require.True(t, doc.CreatedAt.Equal(want))
}

func TestDeserialize_MissingVersionIsLegacy(t *testing.T) {
	doc, err := Deserialize([]byte(`{"id":"9","url":"x/y.txt","size":10}`))
	require.NoError(t, err)
	require.Equal(t, 1, doc.Version)
	require.Equal(t, "x/y.txt", doc.FilePath)
}

func TestSerialize_EmitsCurrentShape(t *testing.T) {
	doc, err := Deserialize([]byte(legacyPayload))
	require.NoError(t, err)

	data, err := doc.Serialize()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.EqualValues(t, CurrentVersion, raw["version"])
	require.Equal(t, "abcdef/name.pdf", raw["filePath"])
	require.EqualValues(t, 500, raw["fileSize"])
	require.EqualValues(t, 2, raw["numParts"])
	require.NotContains(t, raw, "url")
	require.NotContains(t, raw, "num_parts")
}

func TestRoundTrip_FromLegacy(t *testing.T) {
	src, err := Deserialize([]byte(legacyPayload))
	require.NoError(t, err)

	data, err := src.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	require.Equal(t, src.FilePath, got.FilePath)
	require.Equal(t, src.FileSize, got.FileSize)
	require.Equal(t, src.NumParts, got.NumParts)
	require.True(t, src.CreatedAt.Equal(got.CreatedAt))
	require.Equal(t, src.Uploaded, got.Uploaded)
}

func TestRoundTrip_FromCurrent(t *testing.T) {
	src := &Document{
		Id:        "42",
		Version:   CurrentVersion,
		FilePath:  "qwerty/photo.png",
		FileSize:  1234,
		NumParts:  3,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Uploaded:  true,
	}

	data, err := src.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)
	require.Equal(t, src.FilePath, got.FilePath)
	require.Equal(t, src.FileSize, got.FileSize)
	require.Equal(t, src.NumParts, got.NumParts)
	require.True(t, src.CreatedAt.Equal(got.CreatedAt))
	require.Equal(t, src.Uploaded, got.Uploaded)
}

func TestSerialize_WholeObjectOmitsNumParts(t *testing.T) {
	doc := &Document{Id: "1", FilePath: "a/b.txt", FileSize: 5}

	data, err := doc.Serialize()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Nil(t, raw["numParts"])
}

func TestSerialize_Idempotent(t *testing.T) {
	doc := &Document{Id: "1", FilePath: "a/b.txt", FileSize: 5, Uploaded: true}

	first, err := doc.Serialize()
	require.NoError(t, err)
	second, err := doc.Serialize()
	require.NoError(t, err)
	require.JSONEq(t, string(first), string(second))
}

func TestDeserialize_UnknownVersion(t *testing.T) {
	_, err := Deserialize([]byte(`{"id":"1","version":99}`))
	require.ErrorIs(t, err, common.ErrUnknownVersion)
}

func TestDeserialize_Garbage(t *testing.T) {
	_, err := Deserialize([]byte(`not json`))
	require.Error(t, err)
}
