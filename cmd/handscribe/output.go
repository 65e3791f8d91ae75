package main

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"handscribe/internal/presenter"
)

var (
	success  = lipgloss.Color("#87bf47")
	errorCol = lipgloss.Color("#bf5d47")
	muted    = lipgloss.Color("#7f7f7f")

	labelStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorCol).Bold(true)
)

func renderOutcome(img presenter.Image, err error) string {
	if err != nil {
		return errorStyle.Render("failed") + " " + err.Error()
	}

	size := "unknown size"
	if img.Picture != nil {
		b := img.Picture.Bounds()
		size = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
	}
	return fmt.Sprintf("%s #%d\n%s %s\n%s %s\n%s %s",
		successStyle.Render("generated"), img.Seq,
		labelStyle.Render("path:  "), img.Path,
		labelStyle.Render("file:  "), img.Absolute,
		labelStyle.Render("size:  "), size,
	)
}

func currentGOOS() string {
	return runtime.GOOS
}
