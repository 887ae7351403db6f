// Package loader reads graph descriptions from disk and turns them into
// adjacency matrices for the partitioner.
//
// Three formats are supported:
//
//   - dense: whitespace-separated rows of 0/1 values, one row per line
//   - edges: "u v" pairs, one per line, '#' starts a comment; vertex
//     count is 1+max index unless a leading "n <count>" line raises it
//   - json:  {"n": 6, "edges": [[0,1],[1,2]]}
//
// Format is picked by file extension (.json, .edges) with a content
// sniff as fallback.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"

	"github.com/vanderheijden86/hypercut/pkg/debug"
	"github.com/vanderheijden86/hypercut/pkg/matrix"
	"github.com/vanderheijden86/hypercut/pkg/metrics"
)

// Format identifies an input file format.
type Format string

const (
	FormatDense Format = "dense"
	FormatEdges Format = "edges"
	FormatJSON  Format = "json"
)

// jsonGraph is the JSON wire form.
type jsonGraph struct {
	N     int      `json:"n"`
	Edges [][2]int `json:"edges"`
}

// Load reads the file and returns its adjacency matrix.
func Load(path string) (*mat.Dense, error) {
	start := time.Now()
	defer func() { metrics.Load.Record(time.Since(start)) }()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	format := detectFormat(path, data)
	debug.Log("loader: %s detected as %s (%d bytes)", path, format, len(data))

	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatEdges:
		return parseEdges(string(data))
	default:
		return parseDense(string(data))
	}
}

// detectFormat picks a format from the extension, falling back to a
// content sniff: JSON starts with '{'; an edge list is recognised when
// the first non-comment row has two fields and at least one of them is
// not 0 or 1; anything else (including a first row like "0 1") is a
// dense matrix.
func detectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".edges", ".edgelist":
		return FormatEdges
	case ".matrix", ".dense", ".txt":
		return FormatDense
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}
	for _, line := range strings.Split(trimmed, "\n") {
		line = stripComment(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 2 && (fields[0] != "0" && fields[0] != "1" || fields[1] != "0" && fields[1] != "1") {
			return FormatEdges
		}
		break
	}
	return FormatDense
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func parseJSON(data []byte) (*mat.Dense, error) {
	var g jsonGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("loader: bad json graph: %w", err)
	}
	n := g.N
	for _, e := range g.Edges {
		if e[0] >= n {
			n = e[0] + 1
		}
		if e[1] >= n {
			n = e[1] + 1
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("loader: json graph has no vertices")
	}
	m, err := matrix.FromEdges(n, g.Edges)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return m, nil
}

func parseEdges(text string) (*mat.Dense, error) {
	var edges [][2]int
	n := 0
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == "n" {
			count, err := parseInt(fields[1])
			if err != nil {
				return nil, fmt.Errorf("loader: line %d: bad vertex count %q", lineNo, fields[1])
			}
			if count > n {
				n = count
			}
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("loader: line %d: want \"u v\", got %q", lineNo, line)
		}
		u, err := parseInt(fields[0])
		if err != nil {
			return nil, fmt.Errorf("loader: line %d: bad vertex %q", lineNo, fields[0])
		}
		v, err := parseInt(fields[1])
		if err != nil {
			return nil, fmt.Errorf("loader: line %d: bad vertex %q", lineNo, fields[1])
		}
		edges = append(edges, [2]int{u, v})
		if u >= n {
			n = u + 1
		}
		if v >= n {
			n = v + 1
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("loader: edge list has no vertices")
	}
	m, err := matrix.FromEdges(n, edges)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return m, nil
}

func parseDense(text string) (*mat.Dense, error) {
	var rows [][]float64
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, f := range fields {
			switch f {
			case "0":
				row[i] = 0
			case "1":
				row[i] = 1
			default:
				return nil, fmt.Errorf("loader: line %d: entry %q, want 0 or 1", lineNo, f)
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("loader: dense matrix is empty")
	}
	n := len(rows)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("loader: row %d has %d entries, want %d", i+1, len(row), n)
		}
	}
	m := mat.NewDense(n, n, nil)
	for i, row := range rows {
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
