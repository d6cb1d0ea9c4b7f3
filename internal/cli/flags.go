package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/orgchart/internal/editor"
	"github.com/alexanderramin/orgchart/internal/mirror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*exportFormat)(nil)
	_ pflag.Value = (*categoryValue)(nil)
	_ pflag.Value = (*modeValue)(nil)
)

// exportFormat selects the file written by the export command.
type exportFormat string

const (
	formatXLSX exportFormat = "xlsx"
	formatPDF  exportFormat = "pdf"
)

var exportFormats = []string{string(formatXLSX), string(formatPDF)}

func (f *exportFormat) String() string { return string(*f) }
func (f *exportFormat) Type() string   { return "format" }

func (f *exportFormat) Set(s string) error {
	switch v := exportFormat(strings.ToLower(strings.TrimPrefix(s, "."))); v {
	case formatXLSX, formatPDF:
		*f = v
		return nil
	}
	return fmt.Errorf("invalid format %q (want %s)", s, strings.Join(exportFormats, " or "))
}

// formatFromPath picks the format from a file extension, defaulting to xlsx.
func formatFromPath(path string) exportFormat {
	var f exportFormat
	if err := f.Set(filepath.Ext(path)); err != nil {
		return formatXLSX
	}
	return f
}

// categoryValue is the full-text index a search runs against.
type categoryValue mirror.SearchCategory

func (c *categoryValue) String() string { return string(*c) }
func (c *categoryValue) Type() string   { return "category" }

func (c *categoryValue) Set(s string) error {
	switch v := mirror.SearchCategory(strings.ToLower(s)); v {
	case mirror.SearchOffices, mirror.SearchPositions:
		*c = categoryValue(v)
		return nil
	}
	return fmt.Errorf("invalid category %q (want %s or %s)", s, mirror.SearchOffices, mirror.SearchPositions)
}

// modeValue is the editor drop mode.
type modeValue editor.Mode

func (m *modeValue) String() string { return strings.ToLower(string(*m)) }
func (m *modeValue) Type() string   { return "mode" }

func (m *modeValue) Set(s string) error {
	mode, err := editor.ParseMode(s)
	if err != nil {
		return err
	}
	*m = modeValue(mode)
	return nil
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
