package ledger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"positionScope/internal/model"
)

// JsonlLedger reads position transactions from a JSONL file. Lines for other
// positions are skipped; malformed lines fail the read.
type JsonlLedger struct {
	path string
}

func NewJsonlLedger(path string) *JsonlLedger {
	return &JsonlLedger{path: path}
}

// Transactions returns the ledger entries for a position id, ordered by
// timestamp then log index.
func (l *JsonlLedger) Transactions(ctx context.Context, positionID string) ([]model.Transaction, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	transactions := make([]model.Transaction, 0)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var tx model.Transaction
		if err := json.Unmarshal(line, &tx); err != nil {
			return nil, fmt.Errorf("decode ledger entry: %w", err)
		}
		if tx.PositionID != positionID {
			continue
		}
		transactions = append(transactions, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		if transactions[i].Timestamp != transactions[j].Timestamp {
			return transactions[i].Timestamp < transactions[j].Timestamp
		}
		return transactions[i].LogIndex < transactions[j].LogIndex
	})

	return transactions, nil
}
