package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/terry-li-hm/frenum/internal/rules"
	"github.com/terry-li-hm/frenum/internal/runner"
)

// decodeFile dispatches to DecodeYAML or DecodeJSON based on path's
// extension; ".json" decodes as JSON, anything else (".yaml", ".yml",
// or no extension) decodes as YAML.
func decodeFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// LoadPolicyFile reads and parses a policy document from path.
func LoadPolicyFile(path string) (string, []rules.RawRule, error) {
	tree, err := decodeFile(path)
	if err != nil {
		return "", nil, err
	}
	version, raws, err := ParsePolicy(tree)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return version, raws, nil
}

// LoadTestsPath reads test cases from path, which may be a single
// document or a directory of them: every *.yaml, *.yml, and *.json
// file directly inside the directory is loaded, in sorted filename
// order, and their cases concatenated.
func LoadTestsPath(path string) ([]runner.TestCase, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return loadTestFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" || ext == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []runner.TestCase
	for _, name := range names {
		cases, err := loadTestFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		out = append(out, cases...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no test cases found", path)
	}
	return out, nil
}

func loadTestFile(path string) ([]runner.TestCase, error) {
	tree, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := ParseTests(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}
