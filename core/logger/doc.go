// Package logger records shell interaction events as newline delimited
// JSON for later analysis.
package logger
