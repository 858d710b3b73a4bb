package logger

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

var (
	reportHeading = color.New(color.FgCyan, color.Bold)
	reportWarning = color.New(color.FgRed)
)

// NewReport creates an empty log report.
func NewReport() *Report {
	return &Report{
		Commands: make(map[string]int),
		Errors:   make(map[string]int),
	}
}

// Report summarizes an interaction log.
type Report struct {
	LogEntries int

	Sessions     map[string]bool
	Commands     map[string]int
	Errors       map[string]int
	Logins       int
	FailedLogins int
}

// Update folds a single entry into the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	if le.SessionID != "" {
		if r.Sessions == nil {
			r.Sessions = make(map[string]bool)
		}
		r.Sessions[le.SessionID] = true
	}

	switch {
	case le.LoginAttempt != nil:
		if le.LoginAttempt.Success {
			r.Logins++
		} else {
			r.FailedLogins++
		}
	case le.CommandRun != nil && len(le.CommandRun.Argv) > 0:
		r.Commands[le.CommandRun.Argv[0]]++
	case le.CommandError != nil:
		r.Errors[le.CommandError.Error]++
	}
}

// WriteTo renders the report in a human readable form.
func (r *Report) WriteTo(w io.Writer) {
	reportHeading.Fprintln(w, "Log summary")
	fmt.Fprintf(w, "entries: %d\n", r.LogEntries)
	fmt.Fprintf(w, "sessions: %d\n", len(r.Sessions))
	fmt.Fprintf(w, "logins: %d ok, %d failed\n", r.Logins, r.FailedLogins)
	fmt.Fprintln(w)

	reportHeading.Fprintln(w, "Commands")
	writeCounts(w, r.Commands)
	fmt.Fprintln(w)

	reportWarning.Fprintln(w, "Abandoned commands")
	if len(r.Errors) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	writeCounts(w, r.Errors)
}

func writeCounts(w io.Writer, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		fmt.Fprintf(w, "% 5d  %s\n", counts[k], k)
	}
}
