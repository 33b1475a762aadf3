package navigation

import (
	"fmt"
	"path"
	"strings"

	"github.com/samber/oops"
)

// Validate checks the structure under contentDir and reports every problem
// it finds in a single error. Pages must exist whether or not
// Options.ValidateFiles is set.
func Validate(contentDir string, opts Options) error {
	v := &validation{treeBuilder: treeBuilder{root: contentDir, opts: opts}}
	if !isDir(contentDir) {
		v.addf("content directory not found: %s", contentDir)
	} else {
		v.dir("", 0)
	}

	if len(v.problems) == 0 {
		return nil
	}
	return oops.
		Code("CONTENT_INVALID").
		With("path", contentDir).
		With("problems", v.problems).
		Hint("Fix the listed files or enable auto_discover").
		Errorf("content structure validation failed:\n%s", strings.Join(v.problems, "\n"))
}

type validation struct {
	treeBuilder
	problems []string
}

func (v *validation) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validation) dir(rel string, depth int) {
	if depth > MaxDepth {
		v.addf("maximum directory depth exceeded: %s", v.abs(rel))
		return
	}

	docs, err := v.listing(rel)
	if err != nil {
		v.addf("%s: %v", v.abs(rel), err)
		return
	}

	for _, doc := range docs {
		if doc.Type == TypeSection {
			sub := path.Join(rel, doc.Name)
			if !isDir(v.abs(sub)) {
				v.addf("section directory not found: %s", v.abs(sub))
				continue
			}
			v.dir(sub, depth+1)
			continue
		}

		page := v.abs(path.Join(rel, doc.Name+markdownExt))
		if !isFile(page) {
			v.addf("page markdown file not found: %s", page)
		}
	}
}
