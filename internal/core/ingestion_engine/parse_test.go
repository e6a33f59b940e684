package ingestion_engine

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseTopicMap(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		subjects []string
		topics   []string
		mapping  map[string][]string
	}{
		{
			name:     "plain",
			in:       `{"subjects":["Intro to Databases"],"topics":["Relational Model","Normalization"],"mapping":{"Normalization":["1NF","2NF"]}}`,
			subjects: []string{"Intro to Databases"},
			topics:   []string{"Relational Model", "Normalization"},
			mapping:  map[string][]string{"Relational Model": {}, "Normalization": {"1NF", "2NF"}},
		},
		{
			name:     "fenced",
			in:       "```json\n{\"subjects\":[\"S\"],\"topics\":[\"T\"],\"mapping\":{\"T\":[\"F\"]}}\n```",
			subjects: []string{"S"},
			topics:   []string{"T"},
			mapping:  map[string][]string{"T": {"F"}},
		},
		{
			name:     "prose around object",
			in:       "Here is the result:\n{\"subjects\":[\"S\"],\"topics\":[\"T {braced}\"],\"mapping\":{}}\nHope this helps!",
			subjects: []string{"S"},
			topics:   []string{"T {braced}"},
			mapping:  map[string][]string{"T {braced}": {}},
		},
		{
			name:     "legacy keys",
			in:       `{"subject_names":["S"],"lecture_topics":["A","B"],"lecture_focus_mapping":{"A":["x"],"B":[]}}`,
			subjects: []string{"S"},
			topics:   []string{"A", "B"},
			mapping:  map[string][]string{"A": {"x"}, "B": {}},
		},
		{
			name:     "normalization",
			in:       `{"subjects":[" S ","S",""],"topics":["A"," A","B",null],"mapping":{"A":"only","B":null,"Ghost":["g"]," B ":["y","y"," "]}}`,
			subjects: []string{"S"},
			topics:   []string{"A", "B"},
			mapping:  map[string][]string{"A": {"only"}, "B": {"y"}},
		},
		{
			name:     "mapping not an object",
			in:       `{"subjects":[],"topics":["A"],"mapping":["A"]}`,
			subjects: []string{},
			topics:   []string{"A"},
			mapping:  map[string][]string{"A": {}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ParseTopicMap(tc.in)
			if !res.OK() {
				t.Fatalf("unexpected failure: %s", res.Failure.Reason)
			}
			m := res.Map
			if !reflect.DeepEqual(m.Subjects, tc.subjects) {
				t.Errorf("subjects: got %#v want %#v", m.Subjects, tc.subjects)
			}
			if !reflect.DeepEqual(m.Topics, tc.topics) {
				t.Errorf("topics: got %#v want %#v", m.Topics, tc.topics)
			}
			if !reflect.DeepEqual(m.TopicFocusMapping, tc.mapping) {
				t.Errorf("mapping: got %#v want %#v", m.TopicFocusMapping, tc.mapping)
			}
			if err := m.Validate(); err != nil && len(m.Topics) > 0 {
				t.Errorf("normalized map violates invariant: %v", err)
			}
		})
	}
}

func TestParseTopicMapFailures(t *testing.T) {
	for _, in := range []string{
		"",
		"I could not find any topics in this document.",
		"{\"subjects\": [\"S\"], \"topics\": [",
		`{"subjects":["S"],"topics":[{"name":"A"}]}`,
	} {
		res := ParseTopicMap(in)
		if res.OK() || res.Failure == nil {
			t.Errorf("expected failure for %q", in)
		}
		if res.Map != nil {
			t.Errorf("failure must not carry a map for %q", in)
		}
	}
}

func TestParseIsDeterministic(t *testing.T) {
	in := `{"subjects":["S"],"topics":["C","A","B"],"mapping":{"B":["2","1"],"A":[],"C":["z"]}}`
	first := ParseTopicMap(in).Map
	for i := 0; i < 20; i++ {
		again := ParseTopicMap(in).Map
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("parse is not deterministic")
		}
	}
	if strings.Join(first.Topics, ",") != "C,A,B" {
		t.Fatalf("topic order must follow the response, got %v", first.Topics)
	}
}

func TestFindFirstJSON(t *testing.T) {
	in := `noise {"a":"}{","b":{"c":1}} trailing {"d":2}`
	if got := findFirstJSON(in); got != `{"a":"}{","b":{"c":1}}` {
		t.Fatalf("got %q", got)
	}
	if got := findFirstJSON("no object here"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestParseSkipsProseBraces(t *testing.T) {
	in := `Use {braces} to group items. Here is the map: {"topics":["Normalization"],"mapping":{"Normalization":["3NF"]}}`
	res := ParseTopicMap(in)
	if !res.OK() {
		t.Fatalf("expected the later object to be used, got %+v", res.Failure)
	}
	if len(res.Map.Topics) != 1 || res.Map.Topics[0] != "Normalization" {
		t.Fatalf("unexpected topics: %v", res.Map.Topics)
	}

	res = ParseTopicMap(`Example {"note":"x"} then {"lecture_topics":["Keys"]}`)
	if !res.OK() || len(res.Map.Topics) != 1 || res.Map.Topics[0] != "Keys" {
		t.Fatalf("an object naming topics must win over an earlier one: %+v", res)
	}

	if res := ParseTopicMap("braces {only} here"); res.OK() {
		t.Fatal("no decodable object must fail")
	}
}
