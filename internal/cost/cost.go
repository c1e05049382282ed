// Package cost extracts spend figures from agent execution logs.
// Cost data is a reporting cache only: it never feeds task discovery
// or capacity decisions.
package cost

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Cost aggregates the spend recorded by one or more executions.
type Cost struct {
	TotalUSD     float64
	InputTokens  int64
	OutputTokens int64
	DurationMS   int64
}

// Add accumulates another execution's cost.
func (c *Cost) Add(other Cost) {
	c.TotalUSD += other.TotalUSD
	c.InputTokens += other.InputTokens
	c.OutputTokens += other.OutputTokens
	c.DurationMS += other.DurationMS
}

// resultEntry is the terminal entry of a streamed execution log.
type resultEntry struct {
	Type         string  `json:"type"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	DurationMS   int64   `json:"duration_ms"`
	Usage        struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

// ParseExecutionLog extracts the cost from an execution log: either a
// single JSON object or a stream of JSON lines whose final "result"
// entry carries the totals.
func ParseExecutionLog(data []byte) (Cost, error) {
	var last *resultEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry resultEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Type == "result" || entry.TotalCostUSD > 0 {
			e := entry
			last = &e
		}
	}
	if err := scanner.Err(); err != nil {
		return Cost{}, fmt.Errorf("reading execution log: %w", err)
	}
	if last == nil {
		return Cost{}, fmt.Errorf("no result entry in execution log")
	}
	return Cost{
		TotalUSD:     last.TotalCostUSD,
		InputTokens:  last.Usage.InputTokens,
		OutputTokens: last.Usage.OutputTokens,
		DurationMS:   last.DurationMS,
	}, nil
}

// SumDir parses every .json log under dir and returns the aggregate
// cost and the number of logs that parsed. Unparseable logs are
// skipped; a missing directory yields a zero cost.
func SumDir(dir string) (Cost, int, error) {
	var total Cost
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return total, 0, nil
	}
	if err != nil {
		return total, 0, fmt.Errorf("reading cost log dir: %w", err)
	}
	parsed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		c, err := ParseExecutionLog(data)
		if err != nil {
			continue
		}
		total.Add(c)
		parsed++
	}
	return total, parsed, nil
}
