package scanner

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// urlsFileName is the conventional routing file inside a Django app.
const urlsFileName = "urls.py"

// ExtractURLs reads a route file and returns every route entry in it,
// recursively expanding include() directives into sibling apps. prefix is
// prepended to every pattern; included files accumulate the include's own
// literal prefix on top of it. Include cycles are broken by a visited-file
// set; revisiting a file is a no-op.
func ExtractURLs(path, prefix string) []URLInfo {
	return extractURLs(path, prefix, map[string]bool{})
}

func extractURLs(path, prefix string, visited map[string]bool) []URLInfo {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if visited[abs] {
		return []URLInfo{}
	}
	visited[abs] = true

	lines, err := ReadLines(path)
	if err != nil {
		log.Printf("urls: skipping unreadable file %s: %v", path, err)
		return []URLInfo{}
	}

	out := []URLInfo{}
	for i, line := range lines {
		if m := MatchRoute(line); m != nil {
			out = append(out, URLInfo{
				Pattern:  prefix + m.Pattern,
				ViewName: m.Target,
				Line:     i,
			})
			continue
		}
		inc := MatchInclude(line)
		if inc == nil || !strings.HasSuffix(inc.Module, ".urls") {
			continue
		}
		candidate := includeTarget(abs, inc.Module)
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err != nil {
			// Target app has no routing file here; treated as no include.
			continue
		}
		out = append(out, extractURLs(candidate, prefix+inc.Prefix, visited)...)
	}
	return out
}

// includeTarget derives the candidate file for an included route module.
// The first dotted segment names the app directory, joined under the
// project root, which sits two directory levels above the current file.
func includeTarget(currentFile, module string) string {
	app := module
	if idx := strings.Index(module, "."); idx >= 0 {
		app = module[:idx]
	}
	if app == "" {
		return ""
	}
	root := filepath.Dir(filepath.Dir(currentFile))
	return filepath.Join(root, app, urlsFileName)
}
