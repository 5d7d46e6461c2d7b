package apsystems

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
)

type envelope struct {
	Code *int            `json:"code"`
	Data json.RawMessage `json:"data"`
}

// decodeEnvelope returns the data object of a successful response.
func decodeEnvelope(body []byte) (json.RawMessage, error) {
	env := envelope{}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, malformed("response is not a json object: %v", err)
	}
	if env.Code == nil {
		return nil, malformed("missing field %q", "code")
	}
	if *env.Code != 0 {
		return nil, &ResponseError{Code: *env.Code, Body: body}
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, malformed("missing field %q", "data")
	}
	return env.Data, nil
}

// decodeStrict rejects any field the target does not declare.
func decodeStrict(data json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return malformed("%v", err)
	}
	return nil
}

// number accepts both JSON numbers and numeric strings; the live API sends the latter.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = unquoted
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = number(f)
	return nil
}

// text accepts strings and bare numbers, keeping the literal.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = text(n.String())
	return nil
}

type summaryData struct {
	Month    *number `json:"month"`
	Year     *number `json:"year"`
	Today    *number `json:"today"`
	Lifetime *number `json:"lifetime"`
}

func decodeSummary(data json.RawMessage) (*model.SystemSummary, error) {
	raw := summaryData{}
	if err := decodeStrict(data, &raw); err != nil {
		return nil, err
	}
	for name, v := range map[string]*number{
		"month":    raw.Month,
		"year":     raw.Year,
		"today":    raw.Today,
		"lifetime": raw.Lifetime,
	} {
		if v == nil {
			return nil, malformed("missing field %q", name)
		}
	}
	return &model.SystemSummary{
		Month:    float64(*raw.Month),
		Year:     float64(*raw.Year),
		Today:    float64(*raw.Today),
		Lifetime: float64(*raw.Lifetime),
	}, nil
}

type minutelyData struct {
	Today  *number  `json:"today"`
	Time   []text   `json:"time"`
	Power  []number `json:"power"`
	Energy []number `json:"energy"`
}

func decodeMinutely(data json.RawMessage) (*model.MinutelyEnergy, error) {
	raw := minutelyData{}
	if err := decodeStrict(data, &raw); err != nil {
		return nil, err
	}
	if raw.Today == nil {
		return nil, malformed("missing field %q", "today")
	}
	if raw.Time == nil || raw.Power == nil || raw.Energy == nil {
		return nil, malformed("missing series in %s", data)
	}
	if len(raw.Time) != len(raw.Power) || len(raw.Time) != len(raw.Energy) {
		return nil, malformed("series length mismatch: time=%d power=%d energy=%d", len(raw.Time), len(raw.Power), len(raw.Energy))
	}

	out := &model.MinutelyEnergy{
		Today:  float64(*raw.Today),
		Time:   make([]string, len(raw.Time)),
		Power:  make([]int, len(raw.Power)),
		Energy: make([]float64, len(raw.Energy)),
	}
	for i := range raw.Time {
		power := float64(raw.Power[i])
		if power != math.Trunc(power) {
			return nil, malformed("power sample %d is not a whole number: %v", i, power)
		}
		out.Time[i] = string(raw.Time[i])
		out.Power[i] = int(power)
		out.Energy[i] = float64(raw.Energy[i])
	}
	return out, nil
}
