package handlers

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDatalistUnmarshalArray(t *testing.T) {
	var d Datalist
	if err := json.Unmarshal([]byte(`["EPC-A","EPC-B"]`), &d); err != nil {
		t.Fatalf("unmarshal array error = %v", err)
	}
	if !reflect.DeepEqual([]string(d), []string{"EPC-A", "EPC-B"}) {
		t.Errorf("datalist = %v", d)
	}
}

func TestDatalistUnmarshalBracketedString(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain", `"[EPC-A,EPC-B]"`, []string{"EPC-A", "EPC-B"}},
		{"quoted items", `"['EPC-A', \"EPC-B\"]"`, []string{"EPC-A", "EPC-B"}},
		{"spaces", `"[ EPC-A , EPC-B ]"`, []string{"EPC-A", "EPC-B"}},
		{"empty brackets", `"[]"`, nil},
		{"trailing comma", `"[EPC-A,]"`, []string{"EPC-A"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d Datalist
			if err := json.Unmarshal([]byte(tc.raw), &d); err != nil {
				t.Fatalf("unmarshal error = %v", err)
			}
			if !reflect.DeepEqual([]string(d), tc.want) {
				t.Errorf("datalist = %v, want %v", []string(d), tc.want)
			}
		})
	}
}

func TestDatalistUnmarshalRejectsNonString(t *testing.T) {
	var d Datalist
	if err := json.Unmarshal([]byte(`123`), &d); err == nil {
		t.Errorf("numeric payload should fail")
	}
}
