package integration

import (
	"net/http"
	"net/url"
	"testing"

	"coursework/pkg/model"
	"coursework/test/integration/testutil"
)

func TestSearch(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	// Arrange
	mongo.InsertLesson(t, testutil.NewLessonBuilder().WithSubject("Math").WithLocation("Hendon").WithPrice(100).WithSpaces(5).Build())
	mongo.InsertLesson(t, testutil.NewLessonBuilder().WithSubject("English").WithLocation("Colindale").WithPrice(80).WithSpaces(12).Build())
	mongo.InsertLesson(t, testutil.NewLessonBuilder().WithSubject("Music").WithLocation("Brent Cross").WithPrice(95.5).WithSpaces(3).Build())

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"subject substring", "q=math", 1},
		{"case insensitive", "q=MATH", 1},
		{"location", "q=colin", 1},
		{"price as text", "q=95.5", 1},
		{"spaces as text", "q=12", 1},
		{"legacy parameter name", "query=english", 1},
		{"matches several", "q=m", 2},
		{"regex characters are literal", "q=" + url.QueryEscape(".*"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := client.GET(t, "/search?"+tt.query)

			testutil.AssertStatusCode(t, resp, http.StatusOK)
			var lessons []model.Lesson
			if err := resp.DecodeJSON(&lessons); err != nil {
				t.Fatalf("failed to decode search results: %v", err)
			}
			if len(lessons) != tt.expected {
				t.Errorf("expected %d results, got %d: %s", tt.expected, len(lessons), string(resp.Body))
			}
		})
	}
}

func TestSearch_EmptyTerm(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	for _, path := range []string{"/search", "/search?q=", "/search?q=%20%20"} {
		resp := client.GET(t, path)
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
		if msg := testutil.GetErrorMessage(t, resp); msg != "Search term is required" {
			t.Errorf("%s: unexpected error message %q", path, msg)
		}
	}
}
