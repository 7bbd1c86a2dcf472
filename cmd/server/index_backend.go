package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"statecraft.ai/internal/persistence/indexdb"
	"statecraft.ai/internal/protocol"
	"statecraft.ai/internal/sim/tuning"
	"statecraft.ai/internal/sim/worldview"
)

type runtimeIndex interface {
	worldview.Notifier
	WriteTurn(m protocol.TurnMsg) error
	StartSession(seed int64, tune tuning.Tuning) (string, error)
	Flush(ctx context.Context) error
	Close() error
}

func openRuntimeIndex(dataDir string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("SC_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		return indexdb.OpenSQLite(filepath.Join(dataDir, "index", "games.sqlite"))
	default:
		return nil, fmt.Errorf("unsupported SC_INDEX_BACKEND: %s", backend)
	}
}

// startSession registers the run with the index, or makes up an id when indexing is off.
func startSession(idx runtimeIndex, seed int64, tune tuning.Tuning, logger *log.Logger) string {
	if idx != nil {
		id, err := idx.StartSession(seed, tune)
		if err == nil {
			return id
		}
		logger.Printf("index backend: start session: %v", err)
	}
	return uuid.NewString()
}
