package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color functions for consistent styling
var (
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func init() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
}

// Symbol helper functions that return colored strings
func SuccessSymbol() string {
	return green("✓")
}

func ErrorSymbol() string {
	return red("⚠")
}

func WarningSymbol() string {
	return yellow("!")
}

func InfoSymbol() string {
	return cyan("i")
}

func ActionSymbol() string {
	return cyan("→")
}

// Success prints a success message with green ✓ symbol
func Success(msg string, args ...interface{}) {
	fmt.Printf("%s %s\n", SuccessSymbol(), fmt.Sprintf(msg, args...))
}

// Error prints an error message with red ⚠ symbol to stderr
func Error(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorSymbol(), fmt.Sprintf(msg, args...))
}

// Warning prints a warning message with yellow ! symbol
func Warning(msg string, args ...interface{}) {
	fmt.Printf("%s %s\n", WarningSymbol(), fmt.Sprintf(msg, args...))
}

// Info prints an info message with cyan i symbol
func Info(msg string, args ...interface{}) {
	fmt.Printf("%s %s\n", InfoSymbol(), fmt.Sprintf(msg, args...))
}

// Action prints an action/progress message with cyan → symbol
func Action(msg string, args ...interface{}) {
	fmt.Printf("%s %s\n", ActionSymbol(), fmt.Sprintf(msg, args...))
}
