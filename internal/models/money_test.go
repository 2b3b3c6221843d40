package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyUnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "number", raw: `12.345`, want: "12.35"},
		{name: "integer", raw: `7`, want: "7.00"},
		{name: "string", raw: `"4.5"`, want: "4.50"},
		{name: "dollar string", raw: `"$1,234.10"`, want: "1234.10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Money
			if err := json.Unmarshal([]byte(tc.raw), &m); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if m.String() != tc.want {
				t.Fatalf("want %s got %s", tc.want, m.String())
			}
		})
	}
}

func TestMoneyUnmarshalRejectsGarbage(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"twelve"`), &m); err == nil {
		t.Fatalf("expected error for non numeric string")
	}
}

func TestMoneyMarshalIsFixedString(t *testing.T) {
	m, err := ParseMoney("3")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"3.00"` {
		t.Fatalf("unexpected json: %s", string(b))
	}
}

func TestStringArrayScanString(t *testing.T) {
	var s StringArray
	if err := s.Scan(`["a","b"]`); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(s) != 2 || s[1] != "b" {
		t.Fatalf("unexpected value: %v", s)
	}
	if err := s.Scan(nil); err != nil || len(s) != 0 {
		t.Fatalf("nil scan should reset, got %v err %v", s, err)
	}
}
