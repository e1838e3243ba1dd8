// Package base carries the ambient stack shared by every multiarch
// component: leveled logging, content fingerprinting and the compression
// wrappers used by the patch/pack builder and the runtime dispatcher.
package base

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

/***************************************
 * Log levels
 ***************************************/

type LogLevel int32

const (
	LOG_DEBUG LogLevel = iota
	LOG_VERBOSE
	LOG_INFO
	LOG_CLAIM
	LOG_WARNING
	LOG_ERROR
)

func (x LogLevel) String() string {
	switch x {
	case LOG_DEBUG:
		return "DEBUG"
	case LOG_VERBOSE:
		return "VERBOSE"
	case LOG_INFO:
		return "INFO"
	case LOG_CLAIM:
		return "CLAIM"
	case LOG_WARNING:
		return "WARNING"
	case LOG_ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var gLogLevel atomic.Int32

func init() {
	gLogLevel.Store(int32(LOG_INFO))
}

func SetLogLevel(lvl LogLevel) { gLogLevel.Store(int32(lvl)) }
func IsLogLevelActive(lvl LogLevel) bool {
	return int32(lvl) >= gLogLevel.Load()
}

/***************************************
 * Log categories
 ***************************************/

type LogCategory struct {
	Name string
}

var (
	logCategoriesMu sync.Mutex
	logCategories   = map[string]*LogCategory{}
)

func NewLogCategory(name string) *LogCategory {
	logCategoriesMu.Lock()
	defer logCategoriesMu.Unlock()
	if cat, ok := logCategories[name]; ok {
		return cat
	}
	cat := &LogCategory{Name: name}
	logCategories[name] = cat
	return cat
}

func AllLogCategories() []*LogCategory {
	logCategoriesMu.Lock()
	defer logCategoriesMu.Unlock()
	result := make([]*LogCategory, 0, len(logCategories))
	for _, cat := range logCategories {
		result = append(result, cat)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

var LogBase = NewLogCategory("Base")

/***************************************
 * Logger
 ***************************************/

type logger struct {
	mu  sync.Mutex
	out *os.File
}

var gLogger = &logger{out: os.Stderr}

func (l *logger) Log(category *LogCategory, level LogLevel, msg string, args ...interface{}) {
	if !IsLogLevelActive(level) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(l.out, "%12s [%s] %s\n", strings.ToUpper(level.String()), category.Name, formatted)
}

func LogDebug(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_DEBUG, msg, args...)
}
func LogVerbose(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_VERBOSE, msg, args...)
}
func LogInfo(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_INFO, msg, args...)
}
func LogClaim(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_CLAIM, msg, args...)
}
func LogWarning(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_WARNING, msg, args...)
}
func LogError(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_ERROR, msg, args...)
}

/***************************************
 * Progress
 ***************************************/

// ProgressScope is a minimal stand-in for the original's spinner/progress
// bar: the driver is allowed to appear idle for long stretches (compiler
// subprocesses, IO, hashing), so every completed variant nudges it.
type ProgressScope struct {
	category *LogCategory
	label    string
	total    int
	done     atomic.Int32
}

func LogProgress(category *LogCategory, total int, format string, args ...interface{}) *ProgressScope {
	label := fmt.Sprintf(format, args...)
	LogInfo(category, "%s (0/%d)", label, total)
	return &ProgressScope{category: category, label: label, total: total}
}

func (p *ProgressScope) Inc() {
	done := p.done.Add(1)
	LogVerbose(p.category, "%s (%d/%d)", p.label, done, p.total)
}

func (p *ProgressScope) Close() {
	LogInfo(p.category, "%s (%d/%d) done", p.label, p.done.Load(), p.total)
}
