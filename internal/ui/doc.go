// Package ui renders git command lifecycle events as concise console log lines.
package ui
