package manifest

import "testing"

func validateFixture(t *testing.T, name string) []ValidationIssue {
	t.Helper()
	issues, err := Validate(readTestdata(t, name))
	if err != nil {
		t.Fatalf("Validate(%s) error: %v", name, err)
	}
	return issues
}

func TestValidate_Valid(t *testing.T) {
	for _, file := range []string{"valid.json", "hidden.json"} {
		t.Run(file, func(t *testing.T) {
			issues := validateFixture(t, file)
			for _, issue := range issues {
				t.Errorf("unexpected issue: path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
			}
		})
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		file    string
		keyword string
	}{
		{"invalid-missing-name.json", "required"},
		{"invalid-unknown-field.json", "additionalProperties"},
		{"invalid-package-shape.json", "additionalProperties"},
		{"invalid-envvar-shape.json", "type"},
		{"invalid-syntax.json", "syntax"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			issues := validateFixture(t, tt.file)
			if len(issues) == 0 {
				t.Fatalf("expected issues for %s, got none", tt.file)
			}
			found := false
			for _, issue := range issues {
				if issue.Keyword == tt.keyword {
					found = true
				}
			}
			if !found {
				t.Errorf("no issue with keyword %q in %+v", tt.keyword, issues)
			}
		})
	}
}

func TestValidate_IssuePaths(t *testing.T) {
	issues := validateFixture(t, "invalid-package-shape.json")
	for _, issue := range issues {
		if issue.Path == "/packages/0" {
			return
		}
	}
	t.Errorf("expected an issue at /packages/0, got %+v", issues)
}

func TestValidate_AccumulatesIssues(t *testing.T) {
	data := []byte(`{"packages": "nope", "visible": "yes"}`)
	issues, err := Validate(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) < 3 {
		t.Errorf("expected at least 3 issues (required, packages type, visible type), got %d: %+v", len(issues), issues)
	}
}

func TestValidationIssueString(t *testing.T) {
	i := ValidationIssue{Path: "/name", Message: "missing"}
	if got := i.String(); got != "/name: missing" {
		t.Errorf("String() = %q", got)
	}
	i.Path = ""
	if got := i.String(); got != "missing" {
		t.Errorf("String() = %q", got)
	}
}
