package utils

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var logEmailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// LogStats summarises one day of log files
type LogStats struct {
	Day                 time.Time
	TotalErrors         int
	LoginSuccess        int
	LoginFailures       int
	UnservedPincodes    map[string]int
	RequestsByStatus    map[int]int
	AdminActivities     map[string]int
	ErrorPatterns       map[string]int
	RateChanges         int
	MalformedLogEntries int
}

type logEntry struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Status int    `json:"status"`
}

// NewLogStats returns empty stats for day
func NewLogStats(day time.Time) *LogStats {
	return &LogStats{
		Day:              day,
		UnservedPincodes: make(map[string]int),
		RequestsByStatus: make(map[int]int),
		AdminActivities:  make(map[string]int),
		ErrorPatterns:    make(map[string]int),
	}
}

// AnalyzeLogs reads the info and error files InitLogger wrote under dir for day.
// Missing files count as empty.
func AnalyzeLogs(dir string, day time.Time) (*LogStats, error) {
	stats := NewLogStats(day)
	stamp := day.Format("2006-01-02")

	for _, prefix := range []string{"info", "error"} {
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", prefix, stamp))
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		err = stats.Scan(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	return stats, nil
}

// Scan adds every JSON log line in r to the stats
func (s *LogStats) Scan(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry logEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			s.MalformedLogEntries++
			continue
		}
		s.add(entry)
	}
	return scanner.Err()
}

func (s *LogStats) add(entry logEntry) {
	msg := entry.Msg
	switch {
	case msg == "request":
		s.RequestsByStatus[entry.Status]++
	case strings.HasPrefix(msg, "Admin login successful"):
		s.LoginSuccess++
		s.trackAdmin(msg)
	case strings.HasPrefix(msg, "Failed admin login"):
		s.LoginFailures++
		s.trackAdmin(msg)
	case strings.HasPrefix(msg, "No shipping rate for pincode "):
		s.UnservedPincodes[strings.TrimPrefix(msg, "No shipping rate for pincode ")]++
	case strings.HasPrefix(msg, "Created shipping rate"),
		strings.HasPrefix(msg, "Updated shipping rate"),
		strings.HasPrefix(msg, "Deleted shipping rate"):
		s.RateChanges++
	}

	if entry.Level == "error" {
		s.TotalErrors++
		s.ErrorPatterns[errorPattern(msg)]++
	}
}

func (s *LogStats) trackAdmin(msg string) {
	if email := logEmailRegex.FindString(msg); email != "" {
		s.AdminActivities[strings.ToLower(email)]++
	}
}

// errorPattern keeps the message up to its first colon so that
// per-request details collapse into one bucket.
func errorPattern(msg string) string {
	if i := strings.Index(msg, ":"); i > 0 {
		return strings.TrimSpace(msg[:i])
	}
	return msg
}

type countEntry struct {
	key   string
	count int
}

func topCounts(m map[string]int, limit int) []countEntry {
	entries := make([]countEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, countEntry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// WriteReport prints a human readable report
func (s *LogStats) WriteReport(w io.Writer) {
	fmt.Fprintln(w, "=== Log Analysis Report ===")
	fmt.Fprintln(w, "Day:", s.Day.Format("2006-01-02"))

	fmt.Fprintln(w, "\n1. Admin Authentication:")
	fmt.Fprintf(w, "   Successful Logins: %d\n", s.LoginSuccess)
	fmt.Fprintf(w, "   Failed Logins: %d\n", s.LoginFailures)

	fmt.Fprintln(w, "\n2. Requests by Status:")
	statuses := make([]int, 0, len(s.RequestsByStatus))
	for status := range s.RequestsByStatus {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	for _, status := range statuses {
		fmt.Fprintf(w, "   %d: %d\n", status, s.RequestsByStatus[status])
	}

	fmt.Fprintln(w, "\n3. Unserved Pincodes:")
	for _, e := range topCounts(s.UnservedPincodes, 10) {
		fmt.Fprintf(w, "   %s: %d quotes\n", e.key, e.count)
	}

	fmt.Fprintln(w, "\n4. Shipping Rate Changes:", s.RateChanges)

	fmt.Fprintln(w, "\n5. Most Active Admins:")
	for _, e := range topCounts(s.AdminActivities, 5) {
		fmt.Fprintf(w, "   %s: %d activities\n", e.key, e.count)
	}

	fmt.Fprintln(w, "\n6. Most Common Errors:")
	fmt.Fprintf(w, "   Total Errors: %d\n", s.TotalErrors)
	for _, e := range topCounts(s.ErrorPatterns, 5) {
		fmt.Fprintf(w, "   %s: %d occurrences\n", e.key, e.count)
	}
	if s.MalformedLogEntries > 0 {
		fmt.Fprintf(w, "\nSkipped %d malformed entries\n", s.MalformedLogEntries)
	}
}
