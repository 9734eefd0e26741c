package marketdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/stockplot/internal/domain/models"
)

// Top-level keys of the upstream response.
const (
	keyErrorMessage = "Error Message"
	keyNote         = "Note"
	keyInformation  = "Information"
	keyMetaData     = "Meta Data"
)

// seriesKeys maps each granularity to the response key holding its points.
var seriesKeys = map[models.Granularity]string{
	models.Intraday: "Time Series (Intraday)",
	models.Daily:    "Time Series (Daily)",
	models.Weekly:   "Time Series (Weekly)",
	models.Monthly:  "Time Series (Monthly)",
}

// SeriesKey returns the response key for g.
func SeriesKey(g models.Granularity) (string, bool) {
	k, ok := seriesKeys[g]
	return k, ok
}

// MetaData is the "Meta Data" block of a time-series response.
type MetaData struct {
	Information   string `json:"1. Information"`
	Symbol        string `json:"2. Symbol"`
	LastRefreshed string `json:"3. Last Refreshed"`
	OutputSize    string `json:"4. Output Size"`
	TimeZone      string `json:"5. Time Zone"`
}

// Payload is a successfully classified upstream response.
//
// Series holds every recognised time-series key present in the body, each in
// the order the API listed its points.
type Payload struct {
	Meta   MetaData
	Series map[models.Granularity]models.TimeSeries
}

// SelectSeries returns the points for g. A granularity whose key the response
// did not carry yields an empty series.
func SelectSeries(p *Payload, g models.Granularity) models.TimeSeries {
	if p == nil {
		return nil
	}
	return p.Series[g]
}

// rawPoint mirrors one entry of a time-series object. Values arrive as strings.
type rawPoint struct {
	Open  json.Number `json:"1. open"`
	High  json.Number `json:"2. high"`
	Low   json.Number `json:"3. low"`
	Close json.Number `json:"4. close"`
}

// ParsePayload classifies a response body.
//
// Order of checks:
//   - "Error Message" present → UnknownSymbol, whatever else the body holds.
//   - "Note" or "Information" present → RateLimited.
//   - body not an object, or "Time Series (Daily)" absent → UnexpectedResponse.
//   - any point that does not parse → UnexpectedResponse.
func ParsePayload(body []byte) (*Payload, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, models.NewChartError(models.KindUnexpectedResponse, "decode body", err)
	}

	if raw, ok := top[keyErrorMessage]; ok {
		return nil, models.NewChartError(models.KindUnknownSymbol, rawString(raw), nil)
	}
	if raw, ok := top[keyNote]; ok {
		return nil, models.NewChartError(models.KindRateLimited, rawString(raw), nil)
	}
	if raw, ok := top[keyInformation]; ok {
		return nil, models.NewChartError(models.KindRateLimited, rawString(raw), nil)
	}
	if _, ok := top[seriesKeys[models.Daily]]; !ok {
		return nil, models.NewChartError(models.KindUnexpectedResponse, "missing "+seriesKeys[models.Daily], nil)
	}

	p := &Payload{Series: make(map[models.Granularity]models.TimeSeries, len(seriesKeys))}
	if raw, ok := top[keyMetaData]; ok {
		if err := json.Unmarshal(raw, &p.Meta); err != nil {
			return nil, models.NewChartError(models.KindUnexpectedResponse, "decode meta data", err)
		}
	}
	for g, key := range seriesKeys {
		raw, ok := top[key]
		if !ok {
			continue
		}
		ts, err := decodeSeries(raw)
		if err != nil {
			return nil, models.NewChartError(models.KindUnexpectedResponse, key, err)
		}
		p.Series[g] = ts
	}
	return p, nil
}

// decodeSeries walks a time-series object token by token so the points keep
// the order in which the API listed them.
func decodeSeries(raw json.RawMessage) (models.TimeSeries, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var out models.TimeSeries
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected date key, got %v", tok)
		}
		var rp rawPoint
		if err := dec.Decode(&rp); err != nil {
			return nil, fmt.Errorf("point %s: %w", key, err)
		}
		pt, err := rp.toPoint(key)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func (rp rawPoint) toPoint(key string) (models.TimeSeriesPoint, error) {
	date, err := parseKeyDate(key)
	if err != nil {
		return models.TimeSeriesPoint{}, err
	}
	pt := models.TimeSeriesPoint{Label: key, Date: date}
	fields := []struct {
		name string
		in   json.Number
		out  *float64
	}{
		{"open", rp.Open, &pt.Open},
		{"high", rp.High, &pt.High},
		{"low", rp.Low, &pt.Low},
		{"close", rp.Close, &pt.Close},
	}
	for _, f := range fields {
		v, err := f.in.Float64()
		if err != nil {
			return models.TimeSeriesPoint{}, fmt.Errorf("point %s: invalid %s %q", key, f.name, f.in.String())
		}
		*f.out = v
	}
	return pt, nil
}

// parseKeyDate reads the calendar date from "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS".
func parseKeyDate(key string) (time.Time, error) {
	s := strings.TrimSpace(key)
	if len(s) < len(models.DateLayout) {
		return time.Time{}, fmt.Errorf("invalid date key %q", key)
	}
	d, err := time.Parse(models.DateLayout, s[:len(models.DateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return d, nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
