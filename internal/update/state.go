package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// harvestLog is the on-disk ring of swipe-completed task ids. It exists
// so completions survive a restart even when the store write races a
// quit; SetGoals reconciles incoming tasks against it.
type harvestLog struct {
	SavedAt time.Time `json:"saved_at"`
	Done    []string  `json:"done"`
}

// persistCompletedTaskState writes the harvest log atomically via a
// temp file rename. An empty path disables persistence.
func (m *Model) persistCompletedTaskState() error {
	path := strings.TrimSpace(m.stateFilePath)
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	log := harvestLog{SavedAt: m.now(), Done: make([]string, 0, len(m.CompletedTasks))}
	for id, done := range m.CompletedTasks {
		if done && strings.TrimSpace(id) != "" {
			log.Done = append(log.Done, id)
		}
	}
	sort.Strings(log.Done)

	payload, err := json.Marshal(log)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// loadCompletedTaskState reads the harvest log. A missing or empty file
// is an empty log, not an error; a corrupt one is.
func loadCompletedTaskState(path string) (map[string]bool, error) {
	done := make(map[string]bool)
	path = strings.TrimSpace(path)
	if path == "" {
		return done, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return done, nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return done, nil
	}
	var log harvestLog
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, err
	}
	for _, id := range log.Done {
		if id = strings.TrimSpace(id); id != "" {
			done[id] = true
		}
	}
	return done, nil
}
