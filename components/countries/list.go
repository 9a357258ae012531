package countries

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/countries.txt
var dataFS embed.FS

const defaultListPath = "data/countries.txt"

// Country is one entry from the embedded ISO 3166-1 list.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var (
	defaultOnce      sync.Once
	defaultCountries []Country
	defaultErr       error
)

// DefaultCountries returns the embedded country list, sorted by name.
func DefaultCountries() ([]Country, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		countries, err := LoadCountries(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultCountries = countries
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Country{}, defaultCountries...), nil
}

// LoadCountries parses a tab-separated CODE\tName list, skipping blank
// lines, comments, and duplicate codes.
func LoadCountries(r io.Reader) ([]Country, error) {
	if r == nil {
		return nil, fmt.Errorf("countries: missing reader")
	}

	scanner := bufio.NewScanner(r)
	countries := make([]Country, 0, 256)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		code, name, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("countries: malformed line %q", line)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if code == "" || name == "" {
			return nil, fmt.Errorf("countries: malformed line %q", line)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		countries = append(countries, Country{Code: code, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Name < countries[j].Name
	})
	return countries, nil
}
