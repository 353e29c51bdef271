//go:build !js && !wasm

// Package console renders CompilerError values and debug views of a compiled
// Plan (spec §6's "host application" concerns: Rust-like error display, and
// table/tree summaries a host CLI can print without reimplementing
// rendering). Styling is skipped automatically when stdout isn't a
// terminal.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/cloudify-tosca/blueprint/pkg/logger"
	"github.com/cloudify-tosca/blueprint/pkg/styles"
	"github.com/cloudify-tosca/blueprint/pkg/tty"
)

var consoleLog = logger.New("console:console")

func isTTY() bool {
	return tty.IsStdoutTerminal()
}

func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// FormatError renders a CompilerError with Rust-like "file:line:column:
// type: message" framing, plus highlighted source context when available.
func FormatError(err CompilerError) string {
	consoleLog.Printf("formatting error: type=%s, file=%s, line=%d", err.Type, err.Position.File, err.Position.Line)
	var output strings.Builder

	var typeStyle lipgloss.Style
	var prefix string
	switch err.Type {
	case "warning":
		typeStyle = styles.Warning
		prefix = "warning"
	case "info":
		typeStyle = styles.Info
		prefix = "info"
	default:
		typeStyle = styles.Error
		prefix = "error"
	}

	if err.Position.File != "" {
		location := fmt.Sprintf("%s:%d:%d:", err.Position.File, err.Position.Line, err.Position.Column)
		output.WriteString(applyStyle(styles.FilePath, location))
		output.WriteString(" ")
	}

	output.WriteString(applyStyle(typeStyle, prefix+":"))
	output.WriteString(" ")
	output.WriteString(err.Message)
	output.WriteString("\n")

	if len(err.Context) > 0 && err.Position.Line > 0 {
		output.WriteString(renderContext(err))
	}

	return output.String()
}

func renderContext(err CompilerError) string {
	var output strings.Builder

	maxLineNum := err.Position.Line + len(err.Context)/2
	lineNumWidth := len(fmt.Sprintf("%d", maxLineNum))

	for i, line := range err.Context {
		lineNum := err.Position.Line - len(err.Context)/2 + i
		if lineNum < 1 {
			continue
		}

		lineNumStr := fmt.Sprintf("%*d", lineNumWidth, lineNum)
		output.WriteString(applyStyle(styles.LineNumber, lineNumStr))
		output.WriteString(" | ")

		if lineNum == err.Position.Line {
			output.WriteString(applyStyle(styles.Highlight, line))
		} else {
			output.WriteString(applyStyle(styles.ContextLine, line))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// RenderTable renders a formatted table using lipgloss/table. Used by
// Plan.Summary() to print each node's id, type, host and relationship count.
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 {
		consoleLog.Print("no headers provided for table rendering")
		return ""
	}

	consoleLog.Printf("rendering table: title=%s, columns=%d, rows=%d", config.Title, len(config.Headers), len(config.Rows))
	var output strings.Builder

	if config.Title != "" {
		output.WriteString(applyStyle(styles.TableTitle, config.Title))
		output.WriteString("\n")
	}

	styleFunc := func(row, col int) lipgloss.Style {
		if !isTTY() {
			return lipgloss.NewStyle()
		}
		if row == table.HeaderRow {
			return styles.TableHeader.PaddingLeft(1).PaddingRight(1)
		}
		return styles.TableCell.PaddingLeft(1).PaddingRight(1)
	}

	t := table.New().
		Headers(config.Headers...).
		Rows(config.Rows...).
		Border(styles.RoundedBorder).
		BorderStyle(styles.TableBorder).
		StyleFunc(styleFunc)

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// RenderTree renders a hierarchical tree using lipgloss/tree. Used by
// Plan.TypeHierarchyTree() to print a node type's ancestor chain.
func RenderTree(root TreeNode) string {
	if !isTTY() {
		return renderTreeSimple(root, "", true)
	}
	return buildLipglossTree(root).String()
}

func buildLipglossTree(node TreeNode) *tree.Tree {
	t := tree.Root(node.Value).
		EnumeratorStyle(styles.TreeEnumerator).
		ItemStyle(styles.TreeNode)

	if len(node.Children) > 0 {
		children := make([]any, len(node.Children))
		for i, child := range node.Children {
			if len(child.Children) > 0 {
				children[i] = buildLipglossTree(child)
			} else {
				children[i] = child.Value
			}
		}
		t.Child(children...)
	}

	return t
}
