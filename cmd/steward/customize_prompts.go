// Package main provides the entry point for the steward CLI.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lvalics/steward/internal/output"
)

// question is one customization prompt. Enumerated questions re-prompt
// until a valid selection arrives; free-text questions accept empty input
// and fall back to the default.
type question struct {
	Label    string
	Default  string
	Choices  []string // nil for free text
	Numeric  bool     // answer must parse as a positive integer
	ListItem bool     // comma-separated list answer
}

// The fixed question order. Answers feed the config structs positionally.
var customizeQuestions = []question{
	{Label: "Team name", Default: "My Team"},
	{Label: "Team size", Choices: []string{
		"Solo developer",
		"Small team (2-5)",
		"Medium team (6-15)",
		"Large team (16+)",
	}},
	{Label: "Project type", Choices: []string{
		"Web Application",
		"Mobile App",
		"API/Backend",
		"Desktop Application",
		"Library/Package",
		"Other",
	}},
	{Label: "Industry", Default: "General"},
	{Label: "Tech stack (comma-separated)", Default: "Node.js, TypeScript", ListItem: true},
	{Label: "Indentation", Choices: []string{"spaces", "tabs"}},
	{Label: "Max line length", Default: "100", Numeric: true},
	{Label: "Naming convention", Choices: []string{
		"camelCase",
		"snake_case",
		"PascalCase",
		"kebab-case",
	}},
	{Label: "Testing approach", Choices: []string{"TDD", "Test-after", "Minimal"}},
	{Label: "Coverage target (%)", Default: "80", Numeric: true},
	{Label: "Branching strategy", Choices: []string{
		"GitHub Flow",
		"Git Flow",
		"Trunk-based",
	}},
	{Label: "PR review policy", Choices: []string{"Required", "Optional", "None"}},
	{Label: "Environments (comma-separated)", Default: "development, production", ListItem: true},
}

// asker reads answers for the fixed question sequence from a terminal
// (or any reader in tests).
type asker struct {
	reader  *bufio.Reader
	printer *output.Printer
}

func newAsker(in io.Reader, printer *output.Printer) *asker {
	return &asker{reader: bufio.NewReader(in), printer: printer}
}

// ask prompts for one question and returns the validated answer.
// Returns an error only when input ends (user canceled with EOF/Ctrl-D).
func (a *asker) ask(q question) (string, error) {
	for {
		a.printQuestion(q)

		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			return "", output.NewUserError("customization canceled")
		}
		answer := strings.TrimSpace(line)

		if len(q.Choices) > 0 {
			selected, ok := resolveChoice(q.Choices, answer)
			if !ok {
				a.printer.Warn("invalid selection, choose 1-%d", len(q.Choices))
				continue
			}
			return selected, nil
		}

		if answer == "" {
			answer = q.Default
		}
		if q.Numeric {
			if _, convErr := strconv.Atoi(answer); convErr != nil {
				a.printer.Warn("enter a number")
				continue
			}
		}
		return answer, nil
	}
}

// printQuestion renders the prompt line, listing choices for enumerated
// questions.
func (a *asker) printQuestion(q question) {
	if len(q.Choices) > 0 {
		a.printer.Println()
		a.printer.Println(q.Label + ":")
		for i, choice := range q.Choices {
			a.printer.Print("  %d) %s\n", i+1, choice)
		}
		a.printer.Print("Select [1-%d]: ", len(q.Choices))
		return
	}
	if q.Default != "" {
		a.printer.Print("%s [%s]: ", q.Label, q.Default)
		return
	}
	a.printer.Print("%s: ", q.Label)
}

// resolveChoice accepts either the 1-based number or the literal choice
// text (case-insensitive).
func resolveChoice(choices []string, answer string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1], true
		}
		return "", false
	}
	for _, choice := range choices {
		if strings.EqualFold(choice, answer) {
			return choice, true
		}
	}
	return "", false
}

// splitList splits a comma-separated answer into trimmed items.
func splitList(answer string) []string {
	parts := strings.Split(answer, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// mustAtoi converts a numeric answer already validated by ask.
func mustAtoi(answer string) int {
	n, err := strconv.Atoi(answer)
	if err != nil {
		panic(fmt.Sprintf("validated answer %q not numeric", answer))
	}
	return n
}
