package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"contractalloc/domain/table"

	"github.com/tidwall/gjson"
)

const (
	inputDir     = "input"
	outputDir    = "output"
	manifestFile = "manifest.json"
	resultsFile  = "results.json"
)

// tableDoc is the on-disk form of a submitted table.
type tableDoc struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Rows    [][]table.Value `json:"rows"`
}

// manifest tells the engine what was submitted and what to run.
type manifest struct {
	Procedure     string         `json:"procedure"`
	ProjectFile   string         `json:"project_file,omitempty"`
	IdentifierSet string         `json:"identifier_set,omitempty"`
	Tables        []manifestItem `json:"tables"`
}

type manifestItem struct {
	Name string `json:"name"`
	File string `json:"file"`
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func tableFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_") + ".json"
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// decodeResults finds the first result table that holds every identifier and
// returns it projected onto identifiers, in order.
func decodeResults(data []byte, identifiers []string) (*table.Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not valid JSON", resultsFile)
	}

	var found *table.Table
	var decodeErr error
	gjson.GetBytes(data, "tables").ForEach(func(_, doc gjson.Result) bool {
		columns := stringArray(doc.Get("columns"))
		if !containsAll(columns, identifiers) {
			return true
		}
		t, err := decodeTable(doc.Get("name").String(), columns, doc.Get("rows"))
		if err != nil {
			decodeErr = err
			return false
		}
		found = t
		return false
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if found == nil {
		return nil, fmt.Errorf("no result table holds %v", identifiers)
	}
	return found.Project(identifiers...)
}

func decodeTable(name string, columns []string, rows gjson.Result) (*table.Table, error) {
	t := table.New(name, columns...)
	for i, row := range rows.Array() {
		cells := row.Array()
		values := make([]table.Value, len(cells))
		for j, cell := range cells {
			v, err := decodeCell(cell)
			if err != nil {
				return nil, fmt.Errorf("result %q row %d column %d: %w", name, i, j, err)
			}
			values[j] = v
		}
		if err := t.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func decodeCell(cell gjson.Result) (table.Value, error) {
	switch cell.Type {
	case gjson.Null:
		return table.Empty(), nil
	case gjson.Number:
		return table.Number(cell.Float()), nil
	case gjson.String:
		return table.String(cell.String()), nil
	case gjson.True:
		return table.Number(1), nil
	case gjson.False:
		return table.Number(0), nil
	default:
		return table.Value{}, fmt.Errorf("unsupported cell %s", cell.Raw)
	}
}

func stringArray(r gjson.Result) []string {
	items := r.Array()
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	return out
}

func containsAll(columns, identifiers []string) bool {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	for _, id := range identifiers {
		if !have[id] {
			return false
		}
	}
	return len(identifiers) > 0
}

func resultsPath(dir string) string {
	return filepath.Join(dir, outputDir, resultsFile)
}
