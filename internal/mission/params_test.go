package mission

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParametersValidate(t *testing.T) {
	testCases := []struct {
		name        string
		params      Parameters
		expectError bool
	}{
		{name: "Default parameters", params: DefaultParameters()},
		{
			name:   "Single day range",
			params: Parameters{BBox: BBox{72.7, 18.8, 73.1, 19.3}, StartDate: "2024-03-01", EndDate: "2024-03-01"},
		},
		{
			name:        "Inverted dates",
			params:      Parameters{BBox: BBox{72.7, 18.8, 73.1, 19.3}, StartDate: "2024-03-10", EndDate: "2024-03-01"},
			expectError: true,
		},
		{
			name:        "Inverted longitude",
			params:      Parameters{BBox: BBox{73.1, 18.8, 72.7, 19.3}, StartDate: "2024-03-01", EndDate: "2024-03-02"},
			expectError: true,
		},
		{
			name:        "Latitude out of range",
			params:      Parameters{BBox: BBox{0, -95, 1, 1}, StartDate: "2024-03-01", EndDate: "2024-03-02"},
			expectError: true,
		},
		{
			name:        "NaN coordinate",
			params:      Parameters{BBox: BBox{math.NaN(), 0, 1, 1}, StartDate: "2024-03-01", EndDate: "2024-03-02"},
			expectError: true,
		},
		{
			name:        "Bad date format",
			params:      Parameters{BBox: BBox{0, 0, 1, 1}, StartDate: "03/01/2024", EndDate: "2024-03-02"},
			expectError: true,
		},
		{
			name:        "Missing end date",
			params:      Parameters{BBox: BBox{0, 0, 1, 1}, StartDate: "2024-03-01"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.expectError && err == nil {
				t.Error("Expected an error, but got nil")
			}
			if !tc.expectError && err != nil {
				t.Errorf("Did not expect an error, but got: %v", err)
			}
		})
	}
}

func TestNewStateJSONShape(t *testing.T) {
	st := New("floods in Chennai")

	b, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"query":"floods in Chennai","parameters":{"bbox":[0,0,0,0],"start_date":"","end_date":""},"results":[],"errors":[]}`
	if string(b) != want {
		t.Errorf("mismatched JSON:\n got:  %s\n want: %s", b, want)
	}
	if !st.Parameters.IsZero() {
		t.Error("expected zero parameters on a fresh state")
	}
}

func TestStateAppendOnly(t *testing.T) {
	st := New("q")
	st.AddResults(Scene{Source: "A", ID: "1"}, Scene{Source: "A", ID: "2"})
	st.AddResults(Scene{Source: "B", ID: "1"})
	st.AddError("first")
	st.AddError("second")

	ids := []string{}
	for _, s := range st.Results {
		ids = append(ids, s.Source+"/"+s.ID)
	}
	if got, want := len(ids), 3; got != want {
		t.Fatalf("got %d results, want %d", got, want)
	}
	if ids[0] != "A/1" || ids[1] != "A/2" || ids[2] != "B/1" {
		t.Errorf("results out of insertion order: %v", ids)
	}
	if st.Errors[0] != "first" || st.Errors[1] != "second" {
		t.Errorf("errors out of order: %v", st.Errors)
	}

	st.ResetResults()
	if len(st.Results) != 0 || st.Results == nil {
		t.Errorf("expected empty non-nil results after reset, got %#v", st.Results)
	}
	if len(st.Errors) != 2 {
		t.Error("reset must not touch errors")
	}
}
