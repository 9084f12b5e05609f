package remediate

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Knowledge records which technique won for each column and category across
// a run, keyed column -> category -> applied technique names in order.
type Knowledge map[string]map[string][]string

// LoadKnowledge reads a knowledge base from disk. A missing file yields an
// empty base; a corrupt one is logged and discarded rather than aborting the
// run.
func LoadKnowledge(path string) Knowledge {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("remediate: knowledge base unreadable, starting fresh",
				zap.String("path", path),
				zap.Error(err))
		}
		return Knowledge{}
	}

	var kb Knowledge
	if err := json.Unmarshal(data, &kb); err != nil {
		zap.L().Warn("remediate: knowledge base corrupt, starting fresh",
			zap.String("path", path),
			zap.Error(err))
		return Knowledge{}
	}
	if kb == nil {
		kb = Knowledge{}
	}
	return kb
}

// Append records an accepted technique for a column and category.
func (k Knowledge) Append(column string, category Category, technique string) {
	byCat, ok := k[column]
	if !ok {
		byCat = make(map[string][]string)
		k[column] = byCat
	}
	byCat[string(category)] = append(byCat[string(category)], technique)
}

// Save writes the knowledge base to disk.
func (k Knowledge) Save(path string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return eris.Wrap(err, "remediate: marshal knowledge base")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "remediate: write knowledge base")
	}
	return nil
}
