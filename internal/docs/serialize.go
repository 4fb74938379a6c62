package docs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dsmirnov/docshare/internal/common"
)

// CurrentVersion is the payload version written by Serialize. Version 1
// is the legacy shape with snake_case field names; payloads with no
// version field at all are read as version 1.
const CurrentVersion = 2

type payloadV2 struct {
	Id          string     `json:"id"`
	Version     int        `json:"version"`
	ContentType *string    `json:"contentType"`
	FilePath    string     `json:"filePath"`
	FileSize    int64      `json:"fileSize"`
	NumParts    *int       `json:"numParts"`
	CreatedAt   *time.Time `json:"createdAt"`
	Uploaded    bool       `json:"uploaded"`
}

type payloadV1 struct {
	Id          string     `json:"id"`
	ContentType *string    `json:"content_type"`
	URL         string     `json:"url"`
	Size        int64      `json:"size"`
	NumParts    *int       `json:"num_parts"`
	CreatedAt   *time.Time `json:"created_at"`
	Uploaded    bool       `json:"uploaded"`
}

// Serialize renders the document as a version-tagged payload. It always
// emits the current field names and version, whatever shape the
// document was read from, and depends only on the persisted attributes.
func (d *Document) Serialize() ([]byte, error) {
	p := payloadV2{
		Id:       d.Id,
		Version:  CurrentVersion,
		FilePath: d.FilePath,
		FileSize: d.FileSize,
		Uploaded: d.Uploaded,
	}
	if d.ContentType != "" {
		p.ContentType = &d.ContentType
	}
	if d.NumParts > 0 {
		p.NumParts = &d.NumParts
	}
	if !d.CreatedAt.IsZero() {
		t := d.CreatedAt
		p.CreatedAt = &t
	}
	return json.Marshal(p)
}

// Deserialize hydrates a Document from a payload of any shipped
// version. The version field drives the branching; legacy field names
// are mapped onto the current attributes.
func Deserialize(data []byte) (*Document, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("reading payload version: %w", err)
	}

	switch probe.Version {
	case 0, 1:
		var p payloadV1
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("reading v1 payload: %w", err)
		}
		d := &Document{
			Id:       p.Id,
			Version:  1,
			FilePath: p.URL,
			FileSize: p.Size,
			Uploaded: p.Uploaded,
		}
		if p.ContentType != nil {
			d.ContentType = *p.ContentType
		}
		if p.NumParts != nil {
			d.NumParts = *p.NumParts
		}
		if p.CreatedAt != nil {
			d.CreatedAt = *p.CreatedAt
		}
		return d, nil

	case CurrentVersion:
		var p payloadV2
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("reading v2 payload: %w", err)
		}
		d := &Document{
			Id:       p.Id,
			Version:  p.Version,
			FilePath: p.FilePath,
			FileSize: p.FileSize,
			Uploaded: p.Uploaded,
		}
		if p.ContentType != nil {
			d.ContentType = *p.ContentType
		}
		if p.NumParts != nil {
			d.NumParts = *p.NumParts
		}
		if p.CreatedAt != nil {
			d.CreatedAt = *p.CreatedAt
		}
		return d, nil

	default:
		return nil, fmt.Errorf("version %d: %w", probe.Version, common.ErrUnknownVersion)
	}
}
