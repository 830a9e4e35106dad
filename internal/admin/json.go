package admin

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

type jsonDocument struct {
	Stats []interface{} `json:"stats"`
}

type jsonTextStat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type jsonScalarStat struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

type jsonHistogramsWrapper struct {
	Histograms jsonHistograms `json:"histograms"`
}

type jsonHistograms struct {
	SupportedQuantiles []float64               `json:"supported_quantiles"`
	ComputedQuantiles  []jsonComputedQuantiles `json:"computed_quantiles"`
}

type jsonComputedQuantiles struct {
	Name   string         `json:"name"`
	Values []QuantilePair `json:"values"`
}

// RenderJSON renders a snapshot as a {"stats": [...]} document. The
// histograms entry is appended only when at least one histogram passed the
// filter. pretty only changes indentation.
func RenderJSON(snapshot *Snapshot, pretty bool) (string, error) {
	doc := jsonDocument{
		Stats: make([]interface{}, 0, len(snapshot.TextReadouts)+len(snapshot.Scalars)+1),
	}

	for _, t := range snapshot.TextReadouts {
		doc.Stats = append(doc.Stats, jsonTextStat{Name: t.Name, Value: t.Value})
	}
	for _, s := range snapshot.Scalars {
		doc.Stats = append(doc.Stats, jsonScalarStat{Name: s.Name, Value: s.Value})
	}

	if len(snapshot.Histograms) > 0 {
		histograms, err := renderJSONHistograms(snapshot.Histograms)
		if err != nil {
			return "", err
		}
		doc.Stats = append(doc.Stats, jsonHistogramsWrapper{Histograms: histograms})
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode stats: %w", err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// renderJSONHistograms computes the cut-point list once for the pass and
// merges every histogram against it.
func renderJSONHistograms(histograms []stats.ParentHistogram) (jsonHistograms, error) {
	schema := histograms[0].CumulativeStatistics().SupportedQuantiles()
	out := jsonHistograms{
		SupportedQuantiles: SupportedQuantilePercents(schema),
		ComputedQuantiles:  make([]jsonComputedQuantiles, 0, len(histograms)),
	}
	for _, h := range histograms {
		values, err := MergeQuantiles(h, len(schema))
		if err != nil {
			return jsonHistograms{}, err
		}
		out.ComputedQuantiles = append(out.ComputedQuantiles, jsonComputedQuantiles{
			Name:   h.Name(),
			Values: values,
		})
	}
	return out, nil
}
