// ABOUTME: Tests for the search query builder
// ABOUTME: Covers criteria validation, AND/OR composition, and ordering
package query

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestBuild_NoCriteria(t *testing.T) {
	cases := []Criteria{
		{},
		{Limit: 10},
		{Tags: []string{" ", ""}},
		{Topic: "   "},
	}
	for _, c := range cases {
		if _, err := Build(c); !errors.Is(err, ErrNoCriteria) {
			t.Errorf("Build(%+v) error = %v, want ErrNoCriteria", c, err)
		}
	}
}

func TestBuild_InvalidImportance(t *testing.T) {
	for _, n := range []int{-1, 6} {
		if _, err := Build(Criteria{MinImportance: n}); !errors.Is(err, ErrInvalidImportance) {
			t.Errorf("Build(importance=%d) error = %v, want ErrInvalidImportance", n, err)
		}
	}
}

func TestBuild_TopicAndTags(t *testing.T) {
	q, err := Build(Criteria{Topic: "Python", Tags: []string{"AI", " ml "}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantWhere := `WHERE (mi.topic_key LIKE ? ESCAPE '\' AND (mi.tags_key LIKE ? ESCAPE '\' OR mi.tags_key LIKE ? ESCAPE '\'))`
	if !strings.Contains(q.SQL, wantWhere) {
		t.Errorf("SQL = %q, want it to contain %q", q.SQL, wantWhere)
	}
	wantArgs := []any{"%python%", "%ai%", "%ml%"}
	if !reflect.DeepEqual(q.Args, wantArgs) {
		t.Errorf("Args = %v, want %v", q.Args, wantArgs)
	}
	if !strings.Contains(q.SQL, "JOIN metadata_index mi") {
		t.Error("topic search should join metadata_index")
	}
}

func TestBuild_ImportanceOnlySkipsJoin(t *testing.T) {
	q, err := Build(Criteria{MinImportance: 3, Limit: 5})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if strings.Contains(q.SQL, "metadata_index") {
		t.Errorf("importance-only search should not join the index: %s", q.SQL)
	}
	if !strings.Contains(q.SQL, "ei.importance_level >= ?") {
		t.Errorf("SQL missing importance floor: %s", q.SQL)
	}
	if !strings.HasSuffix(q.SQL, "ORDER BY "+ExtractedOrder+" LIMIT ?") {
		t.Errorf("SQL ordering/limit wrong: %s", q.SQL)
	}
	if !reflect.DeepEqual(q.Args, []any{3, 5}) {
		t.Errorf("Args = %v, want [3 5]", q.Args)
	}
}

func TestBuild_AllCriteria(t *testing.T) {
	q, err := Build(Criteria{
		Date:          "2024-08-20",
		Topic:         "go",
		Category:      "Code",
		Tags:          []string{"db"},
		MinImportance: 2,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	wantArgs := []any{"2024-08-20", "%go%", "code", "%db%", 2}
	if !reflect.DeepEqual(q.Args, wantArgs) {
		t.Errorf("Args = %v, want %v", q.Args, wantArgs)
	}
	if strings.Count(q.SQL, " AND ") != 4 {
		t.Errorf("expected four AND joins: %s", q.SQL)
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" ai, ml ,, python ")
	want := []string{"ai", "ml", "python"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTags() = %v, want %v", got, want)
	}
	if got := ParseTags(""); got != nil {
		t.Errorf("ParseTags(\"\") = %v, want nil", got)
	}
}

func TestBuildKnowledge(t *testing.T) {
	q := BuildKnowledge(KnowledgeFilter{})
	if !strings.Contains(q.SQL, "WHERE 1 = 1") || len(q.Args) != 0 {
		t.Errorf("empty filter = %q %v", q.SQL, q.Args)
	}

	q = BuildKnowledge(KnowledgeFilter{Title: "api", Tags: []string{"x", "y"}, SourceType: "code_file", Limit: 5})
	wantArgs := []any{"%api%", "%x%", "%y%", "code_file", 5}
	if !reflect.DeepEqual(q.Args, wantArgs) {
		t.Errorf("Args = %v, want %v", q.Args, wantArgs)
	}
	if !strings.Contains(q.SQL, "ORDER BY "+KnowledgeOrder) {
		t.Errorf("SQL missing ordering: %s", q.SQL)
	}
}
