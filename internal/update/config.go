package update

import (
	"os"
	"strconv"
	"strings"

	"github.com/gardenfence/gardenfence/internal/timegeom"
	"github.com/gardenfence/gardenfence/internal/undo"
)

type RuntimeConfig struct {
	PlotStartMin        int
	PlotEndMin          int
	CollapsePastHours   bool
	UndoDepth           int
	SchedulerBuffer     int
	CompletionStatePath string
	DatabasePath        string
	TerminalBell        bool
	DesktopNotify       bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		PlotStartMin:      timegeom.DefaultPlotStart,
		PlotEndMin:        timegeom.DefaultPlotEnd,
		CollapsePastHours: true,
		UndoDepth:         undo.DefaultCap,
		SchedulerBuffer:   64,
		DatabasePath:      "gardenfence.db",
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvTime("GARDENFENCE_PLOT_START"); ok {
		cfg.PlotStartMin = v
	}
	if v, ok := getEnvTime("GARDENFENCE_PLOT_END"); ok {
		cfg.PlotEndMin = v
	}
	if v, ok := getEnvBool("GARDENFENCE_COLLAPSE_PAST"); ok {
		cfg.CollapsePastHours = v
	}
	if v, ok := getEnvInt("GARDENFENCE_UNDO_DEPTH"); ok && v > 0 {
		cfg.UndoDepth = v
	}
	if v, ok := getEnvInt("GARDENFENCE_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("GARDENFENCE_STATE_FILE")); v != "" {
		cfg.CompletionStatePath = v
	}
	if v := strings.TrimSpace(os.Getenv("GARDENFENCE_DB")); v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := getEnvBool("GARDENFENCE_BELL"); ok {
		cfg.TerminalBell = v
	}
	if v, ok := getEnvBool("GARDENFENCE_DESKTOP_NOTIFY"); ok {
		cfg.DesktopNotify = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// getEnvTime accepts "HH:MM" or bare minutes.
func getEnvTime(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	if m, ok := timegeom.ParseTimeToMinutes(raw); ok {
		return m, true
	}
	if v, err := strconv.Atoi(raw); err == nil && v >= 0 && v < 24*60 {
		return v, true
	}
	return 0, false
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
