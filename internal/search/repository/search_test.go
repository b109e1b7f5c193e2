package repository

import (
	"context"
	"regexp"
	"testing"

	"coursework/internal/testutil"
	"coursework/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestEscapeRegexSpecialChars(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"math", "math"},
		{"9.5", `9\.5`},
		{"a+b", `a\+b`},
		{"(.*)", `\(\.\*\)`},
		{`c:\x`, `c:\\x`},
		{"[x]{2}|^$?", `\[x\]\{2\}\|\^\$\?`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := escapeRegexSpecialChars(tt.in)
			if got != tt.want {
				t.Errorf("escapeRegexSpecialChars(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !regexp.MustCompile(got).MatchString(tt.in) {
				t.Errorf("escaped pattern %q should match its input literally", got)
			}
		})
	}
}

func TestSearchFilter(t *testing.T) {
	filter := searchFilter("9.5")

	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 4 {
		t.Fatalf("expected $or with 4 branches, got %v", filter)
	}

	subject := or[0].(bson.M)["subject"].(bson.M)
	if subject["$regex"] != `9\.5` || subject["$options"] != "i" {
		t.Errorf("unexpected subject branch %v", subject)
	}

	expr := or[2].(bson.M)["$expr"].(bson.M)["$regexMatch"].(bson.M)
	if expr["regex"] != `9\.5` {
		t.Errorf("unexpected price branch %v", expr)
	}
	input := expr["input"].(bson.M)
	if input["$toString"] != "$price" {
		t.Errorf("price must be matched as text, got %v", input)
	}
}

func TestMongoSearchRepository(t *testing.T) {
	store := testutil.StartMongo(t)
	testutil.Clean(t, store)
	repo := NewMongoSearchRepository(store, testutil.Config())

	testutil.SeedLessons(t, store,
		model.Lesson{Subject: "Mathematics", Location: "Hendon", Price: 100, Spaces: 5},
		model.Lesson{Subject: "English", Location: "Colindale", Price: 80, Spaces: 12},
		model.Lesson{Subject: "Music", Location: "Brent Cross", Price: 95.5, Spaces: 3},
	)

	tests := []struct {
		term string
		want []string
	}{
		{"math", []string{"Mathematics"}},
		{"MATH", []string{"Mathematics"}},
		{"colin", []string{"English"}},
		{"95.5", []string{"Music"}},
		{"12", []string{"English"}},
		{"10", []string{"Mathematics"}},
		{"m", []string{"Mathematics", "Music"}},
		{".*", nil},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			lessons, err := repo.Search(context.Background(), tt.term)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			got := map[string]bool{}
			for _, l := range lessons {
				got[l.Subject] = true
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for _, subject := range tt.want {
				if !got[subject] {
					t.Errorf("expected %s in results %v", subject, got)
				}
			}
		})
	}
}
