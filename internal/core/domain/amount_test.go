package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "4.50", want: "4.5"},
		{in: " 12 ", want: "12"},
		{in: "0", want: "0"},
		{in: "1e3", want: "1000"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Infinity", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "1.2.3", wantErr: true},
		{in: "0e100000", want: "0"},
		{in: "1e33", want: "1000000000000000000000000000000000"},
		{in: "1e34", wantErr: true},
		{in: "1e100000", wantErr: true},
		{in: "1e-34", want: "0.0000000000000000000000000000000001"},
		{in: "1e-35", wantErr: true},
		{in: "1e-100000", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ParseAmount(%q): expected validation error, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestAmount_ExactSum(t *testing.T) {
	sum := ZeroAmount
	for i := 0; i < 10; i++ {
		sum = sum.Add(mustAmount("0.1"))
	}
	if !sum.Equal(mustAmount("1")) {
		t.Fatalf("expected exact 1, got %s", sum)
	}
}

func TestAmount_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Amount `json:"a"`
	}{A: mustAmount("50.00")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"a":50}` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func mustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}
