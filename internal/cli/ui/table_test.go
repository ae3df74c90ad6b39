package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTable(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	table := NewTable(&buf, []string{"Property", "Column", "El"}, &TableOptions{NoColor: true})

	table.AddRow("userName", "user_name", "userName")
	table.AddRow("location", "lng", "lng")
	table.AddRow("location", "lat", "lat")

	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, separator and 3 rows, got %d lines: %q", len(lines), buf.String())
	}

	if lines[0] != "Property  Column     El" {
		t.Errorf("unexpected header line %q", lines[0])
	}
	if lines[1] != "────────  ─────────  ────────" {
		t.Errorf("unexpected separator line %q", lines[1])
	}
	if lines[2] != "userName  user_name  userName" {
		t.Errorf("unexpected row %q", lines[2])
	}
	if lines[3] != "location  lng        lng" {
		t.Errorf("unexpected row %q", lines[3])
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{}, &TableOptions{NoColor: true})

	table.Render()

	if buf.String() != "" {
		t.Errorf("Expected empty output for table with no headers, got: %q", buf.String())
	}
}

func TestTableExtraCells(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"A"}, nil)
	table.AddRow("1", "dropped")
	table.Render()

	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("cells beyond the headers should not be rendered: %q", buf.String())
	}
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewKeyValueTable(&buf, true)

	table.AddRow("Table", "user_account")
	table.AddRow("Key column", "id")

	table.Render()

	expected := "Table:      user_account\nKey column: id\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestKeyValueTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewKeyValueTable(&buf, true).Render()

	if buf.String() != "" {
		t.Errorf("Expected empty output, got: %q", buf.String())
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "app.User", true)

	expected := "app.User\n────────\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestDividerDefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	Divider(&buf, 0, true)

	if got := strings.Count(buf.String(), "─"); got != 80 {
		t.Errorf("expected 80 divider runes, got %d", got)
	}
}
