package request

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExpectedSuffix marks a fixture file holding the expected response for the
// body file of the same name without the suffix.
const ExpectedSuffix = ".expected"

// LoadGet builds the single request of a GET run. When expectedPath is set
// its content is attached as the expected response.
func LoadGet(target, expectedPath string) ([]*Request, error) {
	req, err := NewGet(target)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(expectedPath) != "" {
		data, err := readFile(expectedPath)
		if err != nil {
			return nil, fmt.Errorf("expected response: %w", err)
		}
		req = req.WithExpected(data)
	}
	return []*Request{req}, nil
}

// LoadPostDir builds one POST request per regular file in dir, in file name
// order. Hidden files and expected-response fixtures are skipped. With
// withExpected, every body file must have a sibling "<name>.expected".
func LoadPostDir(target, dir string, withExpected bool) ([]*Request, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("data path is required for POST requests")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("data path: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ExpectedSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("data path %q contains no request bodies", dir)
	}

	requests := make([]*Request, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		body, err := readFile(path)
		if err != nil {
			return nil, err
		}
		req, err := NewPost(target, body)
		if err != nil {
			return nil, err
		}
		if withExpected {
			expected, err := readFile(path + ExpectedSuffix)
			if err != nil {
				return nil, fmt.Errorf("expected response for %s: %w", name, err)
			}
			req = req.WithExpected(expected)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	return os.ReadFile(path)
}
