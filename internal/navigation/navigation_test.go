package navigation_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/oops"

	"github.com/mitkury/markpage/internal/navigation"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("creating dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return root
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		t.Fatalf("error %v is not an oops error", err)
	}
	return fmt.Sprint(oopsErr.Code())
}

// shape is a comparable view of an item.
type shape struct {
	Name      string
	Type      navigation.ItemType
	Label     string
	Path      string
	Collapsed bool
	Items     []shape
}

func shapeOf(items []*navigation.Item) []shape {
	var out []shape
	for _, item := range items {
		out = append(out, shape{
			Name:      item.Name,
			Type:      item.Type,
			Label:     item.Label,
			Path:      item.Path,
			Collapsed: item.Collapsed,
			Items:     shapeOf(item.Items),
		})
	}
	return out
}

func TestBuild_AutoDiscover(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":                "# Home",
		"getting-started.md":      "# Start",
		"api_reference.md":        "# API",
		"notes.txt":               "ignored",
		".hidden/secret.md":       "# Hidden",
		"drafts/wip.md":           "# WIP",
		"guide/README.md":         "# Guide",
		"guide/install.md":        "# Install",
		"guide/advanced-usage.md": "# Advanced",
	})

	tree, err := navigation.Build(root, navigation.Options{
		AutoDiscover:  true,
		ValidateFiles: true,
		Exclude:       []string{"drafts"},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []shape{
		{Name: "api_reference", Type: navigation.TypePage, Label: "Api Reference", Path: "api_reference.md"},
		{Name: "getting-started", Type: navigation.TypePage, Label: "Getting Started", Path: "getting-started.md"},
		{
			Name: "guide", Type: navigation.TypeSection, Label: "Guide", Path: "guide/README.md",
			Items: []shape{
				{Name: "advanced-usage", Type: navigation.TypePage, Label: "Advanced Usage", Path: "guide/advanced-usage.md"},
				{Name: "install", Type: navigation.TypePage, Label: "Install", Path: "guide/install.md"},
			},
		},
	}
	if diff := cmp.Diff(want, shapeOf(tree.Items)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_IndexFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		".index.json": `{"items": [
			{"name": "intro", "type": "page", "label": "Introduction"},
			{"name": "guide", "type": "section", "label": "User Guide", "collapsed": true}
		]}`,
		"intro.md":          "# Intro",
		"unlisted.md":       "# Not in the index",
		"guide/.index.json": `{"items": [{"name": "setup", "type": "page", "label": "Setup"}]}`,
		"guide/setup.md":    "# Setup",
		"guide/index.md":    "# Guide",
		"guide/README.md":   "# Readme",
	})

	tree, err := navigation.Build(root, navigation.Options{ValidateFiles: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []shape{
		{Name: "intro", Type: navigation.TypePage, Label: "Introduction", Path: "intro.md"},
		{
			Name: "guide", Type: navigation.TypeSection, Label: "User Guide", Path: "guide/index.md", Collapsed: true,
			Items: []shape{
				{Name: "setup", Type: navigation.TypePage, Label: "Setup", Path: "guide/setup.md"},
			},
		},
	}
	if diff := cmp.Diff(want, shapeOf(tree.Items)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		opts     navigation.Options
		wantCode string
	}{
		{
			name:     "missing index without auto discovery",
			files:    map[string]string{"page.md": "# Page"},
			wantCode: "INDEX_NOT_FOUND",
		},
		{
			name: "missing page with file validation",
			files: map[string]string{
				".index.json": `{"items": [{"name": "ghost", "type": "page", "label": "Ghost"}]}`,
			},
			opts:     navigation.Options{ValidateFiles: true},
			wantCode: "PAGE_NOT_FOUND",
		},
		{
			name:     "invalid json",
			files:    map[string]string{".index.json": `{"items": [`},
			wantCode: "INDEX_INVALID_JSON",
		},
		{
			name:     "bad item type",
			files:    map[string]string{".index.json": `{"items": [{"name": "x", "type": "chapter", "label": "X"}]}`},
			wantCode: "INDEX_INVALID",
		},
		{
			name:     "missing items",
			files:    map[string]string{".index.json": `{}`},
			wantCode: "INDEX_INVALID",
		},
		{
			name: "missing section directory",
			files: map[string]string{
				".index.json": `{"items": [{"name": "gone", "type": "section", "label": "Gone"}]}`,
			},
			opts:     navigation.Options{AutoDiscover: true},
			wantCode: "SECTION_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, tt.files)
			_, err := navigation.Build(root, tt.opts)
			if err == nil {
				t.Fatal("Build() error = nil, want error")
			}
			if got := errorCode(t, err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestBuild_MissingPageWithoutValidation(t *testing.T) {
	root := writeTree(t, map[string]string{
		".index.json": `{"items": [{"name": "later", "type": "page", "label": "Later"}]}`,
	})

	tree, err := navigation.Build(root, navigation.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tree.Items) != 1 || tree.Items[0].Path != "later.md" {
		t.Errorf("Items = %+v, want one page at later.md", tree.Items)
	}
}

func TestBuild_ContentMissing(t *testing.T) {
	_, err := navigation.Build(filepath.Join(t.TempDir(), "nope"), navigation.Options{AutoDiscover: true})
	if err == nil {
		t.Fatal("Build() error = nil, want error")
	}
	if got := errorCode(t, err); got != "CONTENT_NOT_FOUND" {
		t.Errorf("code = %q, want CONTENT_NOT_FOUND", got)
	}
}

func TestBuild_DepthLimit(t *testing.T) {
	files := map[string]string{}
	dir := ""
	for i := 0; i <= navigation.MaxDepth+1; i++ {
		dir += fmt.Sprintf("d%d/", i)
	}
	files[dir+"page.md"] = "# Deep"
	root := writeTree(t, files)

	_, err := navigation.Build(root, navigation.Options{AutoDiscover: true})
	if err == nil {
		t.Fatal("Build() error = nil, want depth error")
	}
	if got := errorCode(t, err); got != "NAVIGATION_TOO_DEEP" {
		t.Errorf("code = %q, want NAVIGATION_TOO_DEEP", got)
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		root := writeTree(t, map[string]string{"a.md": "# A", "sub/b.md": "# B"})
		if err := navigation.Validate(root, navigation.Options{AutoDiscover: true}); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("collects every problem", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			".index.json": `{"items": [
				{"name": "missing", "type": "page", "label": "Missing"},
				{"name": "gone", "type": "section", "label": "Gone"},
				{"name": "sub", "type": "section", "label": "Sub"}
			]}`,
			"sub/.index.json": `{"items": [{"name": "also-missing", "type": "page", "label": "Also"}]}`,
		})

		err := navigation.Validate(root, navigation.Options{})
		if err == nil {
			t.Fatal("Validate() error = nil, want error")
		}
		if got := errorCode(t, err); got != "CONTENT_INVALID" {
			t.Errorf("code = %q, want CONTENT_INVALID", got)
		}
		for _, want := range []string{
			"page markdown file not found: " + filepath.Join(root, "missing.md"),
			"section directory not found: " + filepath.Join(root, "gone"),
			"page markdown file not found: " + filepath.Join(root, "sub", "also-missing.md"),
		} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q does not mention %q", err.Error(), want)
			}
		}
	})

	t.Run("missing index without auto discovery", func(t *testing.T) {
		root := writeTree(t, map[string]string{"a.md": "# A"})
		err := navigation.Validate(root, navigation.Options{})
		if err == nil || !strings.Contains(err.Error(), ".index.json not found") {
			t.Errorf("Validate() error = %v, want missing index", err)
		}
	})
}

func TestLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"getting-started", "Getting Started"},
		{"api_reference", "Api Reference"},
		{"FAQ", "FAQ"},
		{"v2-notes", "V2 Notes"},
		{"-edge-", "Edge"},
	}
	for _, tt := range tests {
		if got := navigation.Label(tt.in); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseIndex(t *testing.T) {
	items, err := navigation.ParseIndex("x", []byte(`{"items": [{"name": "a", "type": "page", "label": "A", "url": "/a"}]}`))
	if err != nil {
		t.Fatalf("ParseIndex() error = %v", err)
	}
	want := []navigation.DocItem{{Name: "a", Type: navigation.TypePage, Label: "A", URL: "/a"}}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	_, err = navigation.ParseIndex("x", []byte(`{"items": [{"name": "a/b", "type": "page", "label": "A"}]}`))
	if err == nil || !strings.Contains(err.Error(), "items[0].name") {
		t.Errorf("ParseIndex() error = %v, want name error", err)
	}
}
