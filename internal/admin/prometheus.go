package admin

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/songzhibin97/stargate-stats/pkg/log"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
	"google.golang.org/protobuf/proto"
)

// PrometheusContentType is the content type of the text exposition format
const PrometheusContentType = "text/plain; version=0.0.4; charset=utf-8"

// RenderPrometheus renders the counters, gauges and histograms of an already
// filtered snapshot in the Prometheus text exposition format. Family names
// are the namespace followed by the sanitized tag-extracted name; tags become
// labels. A series whose sanitized name already belongs to a family of a
// different type is skipped and reported through logger.
func RenderPrometheus(snapshot *Snapshot, namespace string, logger log.Logger) (string, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	families := newFamilySet(namespace, logger)

	for _, c := range snapshot.Counters {
		family, ok := families.get(c, dto.MetricType_COUNTER)
		if !ok {
			continue
		}
		family.Metric = append(family.Metric, &dto.Metric{
			Label:   labelPairs(c.Tags()),
			Counter: &dto.Counter{Value: proto.Float64(float64(c.Value()))},
		})
	}

	for _, g := range snapshot.Gauges {
		family, ok := families.get(g, dto.MetricType_GAUGE)
		if !ok {
			continue
		}
		family.Metric = append(family.Metric, &dto.Metric{
			Label: labelPairs(g.Tags()),
			Gauge: &dto.Gauge{Value: proto.Float64(float64(g.Value()))},
		})
	}

	for _, h := range snapshot.Histograms {
		family, ok := families.get(h, dto.MetricType_HISTOGRAM)
		if !ok {
			continue
		}
		family.Metric = append(family.Metric, &dto.Metric{
			Label:     labelPairs(h.Tags()),
			Histogram: histogramMetric(h.CumulativeStatistics()),
		})
	}

	var buf bytes.Buffer
	for _, family := range families.sorted() {
		if _, err := expfmt.MetricFamilyToText(&buf, family); err != nil {
			return "", fmt.Errorf("failed to encode metric family %s: %w", family.GetName(), err)
		}
	}
	return buf.String(), nil
}

// familySet groups series by sanitized family name. The first type seen for
// a name owns the family.
type familySet struct {
	namespace string
	logger    log.Logger
	families  map[string]*dto.MetricFamily
}

func newFamilySet(namespace string, logger log.Logger) *familySet {
	return &familySet{
		namespace: namespace,
		logger:    logger,
		families:  make(map[string]*dto.MetricFamily),
	}
}

// get returns the family for m, or false when the name is already taken by a
// family of another type.
func (s *familySet) get(m stats.Metric, metricType dto.MetricType) (*dto.MetricFamily, bool) {
	name := prometheusName(s.namespace, m.TagExtractedName())
	if family, exists := s.families[name]; exists {
		if family.GetType() != metricType {
			s.logger.Warn("Prometheus family type conflict, series skipped",
				log.String("family", name),
				log.String("metric", m.Name()),
				log.String("type", metricType.String()),
				log.String("family_type", family.GetType().String()))
			return nil, false
		}
		return family, true
	}
	family := &dto.MetricFamily{
		Name: proto.String(name),
		Type: metricType.Enum(),
	}
	s.families[name] = family
	return family, true
}

// sorted returns every family ordered by name, with series ordered by labels
func (s *familySet) sorted() []*dto.MetricFamily {
	out := make([]*dto.MetricFamily, 0, len(s.families))
	for _, family := range s.families {
		sort.SliceStable(family.Metric, func(i, j int) bool {
			return labelSignature(family.Metric[i]) < labelSignature(family.Metric[j])
		})
		out = append(out, family)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GetName() < out[j].GetName()
	})
	return out
}

func prometheusName(namespace, name string) string {
	name = stats.SanitizeName(name)
	if namespace != "" {
		name = stats.SanitizeName(namespace) + "_" + name
	}
	return labelSafe(name)
}

// labelSafe prefixes names that would otherwise start with a digit
func labelSafe(name string) string {
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		return "_" + name
	}
	return name
}

func labelPairs(tags []stats.Tag) []*dto.LabelPair {
	if len(tags) == 0 {
		return nil
	}
	pairs := make([]*dto.LabelPair, 0, len(tags))
	for _, tag := range tags {
		pairs = append(pairs, &dto.LabelPair{
			Name:  proto.String(labelSafe(stats.SanitizeName(tag.Name))),
			Value: proto.String(tag.Value),
		})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].GetName() < pairs[j].GetName()
	})
	return pairs
}

func labelSignature(m *dto.Metric) string {
	var b strings.Builder
	for _, pair := range m.GetLabel() {
		b.WriteString(pair.GetName())
		b.WriteByte('\xff')
		b.WriteString(pair.GetValue())
		b.WriteByte('\xff')
	}
	return b.String()
}

func histogramMetric(s stats.HistogramStatistics) *dto.Histogram {
	bounds := s.SupportedBuckets()
	counts := s.ComputedBuckets()
	buckets := make([]*dto.Bucket, 0, len(bounds))
	for i, bound := range bounds {
		if math.IsInf(bound, 1) {
			continue
		}
		buckets = append(buckets, &dto.Bucket{
			UpperBound:      proto.Float64(bound),
			CumulativeCount: proto.Uint64(counts[i]),
		})
	}
	return &dto.Histogram{
		SampleCount: proto.Uint64(s.SampleCount()),
		SampleSum:   proto.Float64(s.SampleSum()),
		Bucket:      buckets,
	}
}
