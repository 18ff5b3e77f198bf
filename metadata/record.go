// Package metadata parses the XML annotation clusters that the acquisition
// software attaches to each trace. A cluster is a flat sequence of
// <Name>/<Val> element pairs (nested wrappers are ignored); each parsed
// record is keyed by the trace's FID so it can be joined back against the
// assembled array.
package metadata

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Record is the parsed annotation for one trace.
type Record struct {
	FID    string
	Fields map[string]string
}

// ParseError reports a malformed annotation cluster. One bad record crops
// that trace's metadata only; extraction of the array continues.
type ParseError struct {
	FID string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing metadata for fid %s: %v", e.FID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RecordList accumulates per-trace records for one survey store.
type RecordList struct {
	StorePath string
	Records   []Record
}

// NewRecordList returns an empty record set for the given store.
func NewRecordList(storePath string) *RecordList {
	return &RecordList{StorePath: storePath}
}

// AddLeaf parses one annotation cluster and appends it under fid. On a
// parse failure nothing is appended and a *ParseError is returned; the
// failed trace's metadata is simply absent from the accumulated set.
func (l *RecordList) AddLeaf(xmlText, fid string) error {
	fields, err := parseCluster(xmlText)
	if err != nil {
		return &ParseError{FID: fid, Err: err}
	}
	l.Records = append(l.Records, Record{FID: fid, Fields: fields})
	return nil
}

// Crop drops the most recently accumulated record, if any. AddLeaf
// appends nothing on failure, so this package never crops on its own;
// analysis layers that ingest per-trace data after the append use it to
// back a record out.
func (l *RecordList) Crop() {
	if n := len(l.Records); n > 0 {
		l.Records = l.Records[:n-1]
	}
}

// Len returns the number of accumulated records.
func (l *RecordList) Len() int { return len(l.Records) }

// FIDs returns the record identifiers in accumulation order.
func (l *RecordList) FIDs() []string {
	out := make([]string, len(l.Records))
	for i, r := range l.Records {
		out[i] = r.FID
	}
	return out
}

// parseCluster tokenizes a cluster, pairing each <Name> text with the next
// <Val> text. Wrapper elements (Cluster, DBL, NumElts, ...) carry no
// pairing significance of their own.
func parseCluster(xmlText string) (map[string]string, error) {
	if strings.TrimSpace(xmlText) == "" {
		return nil, fmt.Errorf("empty annotation")
	}
	dec := xml.NewDecoder(strings.NewReader(xmlText))
	fields := make(map[string]string)
	var current, pendingName string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name.Local
		case xml.EndElement:
			current = ""
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			switch current {
			case "Name":
				pendingName = text
			case "Val":
				if pendingName != "" {
					fields[pendingName] = text
					pendingName = ""
				}
			}
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no name/value pairs in annotation")
	}
	return fields, nil
}
